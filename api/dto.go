/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the calculator's domain types (Money, WorkingHours, constructors with
  invariants) from the external contract.

CONVENTIONS:
  - Every monetary field is an integer number of won.
  - Hours are decimal numbers (8.5 = 8h30m).
  - Statutory rates are decimal strings so no precision is lost.
  - Dates are YYYY-MM-DD, months YYYY-MM, times of day HH:MM.

TYPES:
  Salary:
    SalaryRequest (EmployeeDTO, AllowanceDTO, ShiftDTO, ...), SalaryResponse
  Reverse:
    ReverseRequest, ReverseResponse
  Deductions:
    InsuranceRequest/InsuranceDTO, TaxRequest/TaxDTO
  Simulation:
    SimulationRequest, SimulationResponse
  Reference data:
    RatesDTO, HolidayDTO, RecordDTO

VALIDATION:
  DTOs are pure data carriers. toSalaryInput and friends build domain values
  through their constructors, so invariant violations surface as
  payroll.ValidationError and map to 400.

SEE ALSO:
  - handlers.go: Uses these types
  - calculator/salary.go: SalaryInput and SalaryCalculationResult
*/
package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calculator"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/rates"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// SALARY REQUEST
// =============================================================================

type EmployeeDTO struct {
	Name              string `json:"name"`
	DependentsCount   int    `json:"dependents_count"`
	ChildrenUnder20   int    `json:"children_under_20"`
	EmploymentType    string `json:"employment_type,omitempty"`
	CompanySize       string `json:"company_size,omitempty"`
	ScheduledWorkDays int    `json:"scheduled_work_days,omitempty"`
}

// AllowanceDTO describes one allowance. Taxable defaults to true.
type AllowanceDTO struct {
	Name                  string `json:"name"`
	Amount                int64  `json:"amount"`
	Taxable               *bool  `json:"taxable,omitempty"`
	IncludedInMinimumWage bool   `json:"included_in_minimum_wage"`
	Fixed                 bool   `json:"fixed"`
	IncludedInRegularWage bool   `json:"included_in_regular_wage"`
}

type ShiftDTO struct {
	Date          string `json:"date"`
	Start         string `json:"start_time"`
	End           string `json:"end_time"`
	BreakMinutes  int    `json:"break_minutes"`
	IsHolidayWork bool   `json:"is_holiday_work"`
}

type InsuranceOptionsDTO struct {
	ExemptPension      bool `json:"exempt_pension"`
	ExemptHealth       bool `json:"exempt_health"`
	ExemptLongTermCare bool `json:"exempt_long_term_care"`
	ExemptEmployment   bool `json:"exempt_employment"`
}

type InclusiveDTO struct {
	Enabled               bool            `json:"enabled"`
	FixedOvertimeRate     int64           `json:"fixed_overtime_rate"`
	ExpectedOvertimeHours decimal.Decimal `json:"expected_overtime_hours"`
}

// SalaryRequest is the body of /api/salary/calculate and /api/salary/payslip.
type SalaryRequest struct {
	Employee              EmployeeDTO         `json:"employee"`
	BaseSalary            int64               `json:"base_salary"`
	HourlyRate            int64               `json:"hourly_rate"`
	Allowances            []AllowanceDTO      `json:"allowances"`
	Shifts                []ShiftDTO          `json:"shifts"`
	WageType              string              `json:"wage_type,omitempty"`
	Month                 string              `json:"month,omitempty"`
	AbsencePolicy         string              `json:"absence_policy,omitempty"`
	HoursMode             string              `json:"hours_mode,omitempty"`
	WeeklyHours           int                 `json:"weekly_hours,omitempty"`
	Insurance             InsuranceOptionsDTO `json:"insurance"`
	Inclusive             *InclusiveDTO       `json:"inclusive,omitempty"`
	ContractMonthlySalary int64               `json:"contract_monthly_salary"`
	// Save stores the result as a calculation record.
	Save bool `json:"save"`
}

func (r SalaryRequest) toEmployee() (payroll.Employee, error) {
	return payroll.NewEmployee(payroll.EmployeeParams{
		Name:              r.Employee.Name,
		DependentsCount:   r.Employee.DependentsCount,
		ChildrenUnder20:   r.Employee.ChildrenUnder20,
		EmploymentType:    payroll.EmploymentType(r.Employee.EmploymentType),
		CompanySize:       payroll.CompanySize(r.Employee.CompanySize),
		ScheduledWorkDays: r.Employee.ScheduledWorkDays,
	})
}

// toSalaryInput builds the calculator input. The month stays zero when the
// request leaves it out, so the calculator infers it from the shifts.
func (r SalaryRequest) toSalaryInput() (calculator.SalaryInput, error) {
	emp, err := r.toEmployee()
	if err != nil {
		return calculator.SalaryInput{}, err
	}

	allowances := make([]payroll.Allowance, 0, len(r.Allowances))
	for _, a := range r.Allowances {
		taxable := true
		if a.Taxable != nil {
			taxable = *a.Taxable
		}
		al, err := payroll.NewAllowance(payroll.AllowanceParams{
			Name:                  a.Name,
			Amount:                payroll.NewMoney(a.Amount),
			Taxable:               taxable,
			IncludedInMinimumWage: a.IncludedInMinimumWage,
			Fixed:                 a.Fixed,
			IncludedInRegularWage: a.IncludedInRegularWage,
		})
		if err != nil {
			return calculator.SalaryInput{}, err
		}
		allowances = append(allowances, al)
	}

	shifts := make([]payroll.WorkShift, 0, len(r.Shifts))
	for i, s := range r.Shifts {
		ws, err := s.toShift()
		if err != nil {
			return calculator.SalaryInput{}, fmt.Errorf("shift %d: %w", i, err)
		}
		shifts = append(shifts, ws)
	}

	var month payroll.Month
	if r.Month != "" {
		if month, err = payroll.ParseMonth(r.Month); err != nil {
			return calculator.SalaryInput{}, err
		}
	}

	in := calculator.SalaryInput{
		Employee:      emp,
		BaseSalary:    payroll.NewMoney(r.BaseSalary),
		HourlyRate:    payroll.NewMoney(r.HourlyRate),
		Allowances:    allowances,
		Shifts:        shifts,
		WageType:      calculator.WageType(r.WageType),
		Month:         month,
		AbsencePolicy: calculator.AbsencePolicy(r.AbsencePolicy),
		HoursMode:     calculator.HoursMode(r.HoursMode),
		WeeklyHours:   r.WeeklyHours,
		Insurance: calculator.InsuranceOptions{
			ExemptPension:      r.Insurance.ExemptPension,
			ExemptHealth:       r.Insurance.ExemptHealth,
			ExemptLongTermCare: r.Insurance.ExemptLongTermCare,
			ExemptEmployment:   r.Insurance.ExemptEmployment,
		},
		ContractMonthlySalary: payroll.NewMoney(r.ContractMonthlySalary),
	}
	if r.Inclusive != nil {
		in.Inclusive = calculator.InclusiveWageOptions{
			Enabled:               r.Inclusive.Enabled,
			FixedOvertimeRate:     payroll.NewMoney(r.Inclusive.FixedOvertimeRate),
			ExpectedOvertimeHours: r.Inclusive.ExpectedOvertimeHours,
		}
	}
	return in, nil
}

func (s ShiftDTO) toShift() (payroll.WorkShift, error) {
	date, err := payroll.ParseDate(s.Date)
	if err != nil {
		return payroll.WorkShift{}, err
	}
	start, err := payroll.ParseTimeOfDay(s.Start)
	if err != nil {
		return payroll.WorkShift{}, err
	}
	end, err := payroll.ParseTimeOfDay(s.End)
	if err != nil {
		return payroll.WorkShift{}, err
	}
	return payroll.NewWorkShift(payroll.WorkShiftParams{
		Date:          date,
		Start:         start,
		End:           end,
		BreakMinutes:  s.BreakMinutes,
		IsHolidayWork: s.IsHolidayWork,
	})
}

// =============================================================================
// SALARY RESPONSE
// =============================================================================

// SalaryResponse is the calculation breakdown: gross, deductions and net pay.
type SalaryResponse struct {
	Employee      EmployeeDTO          `json:"employee"`
	Month         string               `json:"month"`
	WageType      string               `json:"wage_type"`
	HoursMode     string               `json:"hours_mode"`
	AbsencePolicy string               `json:"absence_policy"`
	Gross         GrossDTO             `json:"gross"`
	Deductions    DeductionsDTO        `json:"deductions"`
	NetPay        int64                `json:"net_pay"`
	WorkSummary   *WorkSummaryDTO      `json:"work_summary,omitempty"`
	Absence       *AbsenceDTO          `json:"absence,omitempty"`
	Contract      *ContractDTO         `json:"contract_guarantee,omitempty"`
	Warnings      []calculator.Warning `json:"warnings"`
	RecordID      string               `json:"record_id,omitempty"`
}

type GrossDTO struct {
	BaseSalary           int64            `json:"base_salary"`
	ContractBaseSalary   int64            `json:"contract_base_salary"`
	RegularWage          int64            `json:"regular_wage"`
	HourlyWage           int64            `json:"hourly_wage"`
	MonthlyRegularHours  float64          `json:"monthly_regular_hours"`
	Allowances           []AllowanceLine  `json:"allowances"`
	TaxableAllowances    int64            `json:"taxable_allowances"`
	NonTaxableAllowances int64            `json:"non_taxable_allowances"`
	Overtime             PremiumDTO       `json:"overtime"`
	Night                PremiumDTO       `json:"night"`
	Holiday              PremiumDTO       `json:"holiday"`
	InclusiveOvertimePay int64            `json:"inclusive_overtime_pay"`
	WeeklyHoliday        WeeklyHolidayDTO `json:"weekly_holiday"`
	Total                int64            `json:"total"`
	Taxable              int64            `json:"taxable"`
}

type AllowanceLine struct {
	Name    string `json:"name"`
	Amount  int64  `json:"amount"`
	Taxable bool   `json:"taxable"`
}

type PremiumDTO struct {
	Hours float64 `json:"hours"`
	Pay   int64   `json:"pay"`
}

type WeeklyHolidayDTO struct {
	Pay                int64   `json:"pay"`
	AverageWeeklyHours float64 `json:"average_weekly_hours"`
	QualifyingWeeks    int     `json:"qualifying_weeks"`
	EvaluatedWeeks     int     `json:"evaluated_weeks"`
	IsProportional     bool    `json:"is_proportional"`
}

type DeductionsDTO struct {
	Insurance InsuranceDTO `json:"insurance"`
	Tax       TaxDTO       `json:"tax"`
	Total     int64        `json:"total"`
}

type InsuranceDTO struct {
	NationalPension     int64 `json:"national_pension"`
	HealthInsurance     int64 `json:"health_insurance"`
	LongTermCare        int64 `json:"long_term_care"`
	EmploymentInsurance int64 `json:"employment_insurance"`
	PensionBase         int64 `json:"pension_base"`
	EmploymentBase      int64 `json:"employment_base"`
	Total               int64 `json:"total"`
}

type TaxDTO struct {
	IncomeTax           int64 `json:"income_tax"`
	LocalIncomeTax      int64 `json:"local_income_tax"`
	EffectiveDependents int   `json:"effective_dependents"`
	Total               int64 `json:"total"`
}

type WorkSummaryDTO struct {
	Shifts       int     `json:"shifts"`
	WorkDays     int     `json:"work_days"`
	TotalHours   float64 `json:"total_hours"`
	RegularHours float64 `json:"regular_hours"`
	HolidayHours float64 `json:"holiday_hours"`
	NightHours   float64 `json:"night_hours"`
}

type AbsenceDTO struct {
	ScheduledDays  int   `json:"scheduled_days"`
	ActualWorkDays int   `json:"actual_work_days"`
	AbsentDays     int   `json:"absent_days"`
	AbsentWeeks    int   `json:"absent_weeks"`
	DailyWage      int64 `json:"daily_wage"`
	WageDeduction  int64 `json:"wage_deduction"`
	HolidayPayLoss int64 `json:"holiday_pay_loss"`
	TotalDeduction int64 `json:"total_deduction"`
}

type ContractDTO struct {
	AppliedWageMode string `json:"applied_wage_mode"`
	Difference      int64  `json:"difference"`
	Allowance       int64  `json:"allowance"`
}

func hours(w payroll.WorkingHours) float64 { return w.DecimalHours().InexactFloat64() }

func toEmployeeDTO(e payroll.Employee) EmployeeDTO {
	return EmployeeDTO{
		Name:              e.Name(),
		DependentsCount:   e.DependentsCount(),
		ChildrenUnder20:   e.ChildrenUnder20(),
		EmploymentType:    string(e.EmploymentType()),
		CompanySize:       string(e.CompanySize()),
		ScheduledWorkDays: e.ScheduledWorkDays(),
	}
}

func toInsuranceDTO(r calculator.InsuranceResult) InsuranceDTO {
	return InsuranceDTO{
		NationalPension:     r.NationalPension.Int64(),
		HealthInsurance:     r.HealthInsurance.Int64(),
		LongTermCare:        r.LongTermCare.Int64(),
		EmploymentInsurance: r.EmploymentInsurance.Int64(),
		PensionBase:         r.PensionBase.Int64(),
		EmploymentBase:      r.EmploymentBase.Int64(),
		Total:               r.Total().Int64(),
	}
}

func toTaxDTO(r calculator.TaxResult) TaxDTO {
	return TaxDTO{
		IncomeTax:           r.IncomeTax.Int64(),
		LocalIncomeTax:      r.LocalIncomeTax.Int64(),
		EffectiveDependents: r.EffectiveDependents,
		Total:               r.Total().Int64(),
	}
}

func toSalaryResponse(res *calculator.SalaryCalculationResult, warnings []calculator.Warning) SalaryResponse {
	ot := res.Overtime
	lines := make([]AllowanceLine, 0, len(res.Allowances))
	for _, a := range res.Allowances {
		lines = append(lines, AllowanceLine{Name: a.Name(), Amount: a.Amount().Int64(), Taxable: a.IsTaxable()})
	}
	if warnings == nil {
		warnings = []calculator.Warning{}
	}

	out := SalaryResponse{
		Employee:      toEmployeeDTO(res.Employee),
		Month:         res.Month.String(),
		WageType:      string(res.WageType),
		HoursMode:     string(res.HoursMode),
		AbsencePolicy: string(res.AbsencePolicy),
		Gross: GrossDTO{
			BaseSalary:           res.BaseSalary.Int64(),
			ContractBaseSalary:   res.ContractBaseSalary.Int64(),
			RegularWage:          res.RegularWage.Int64(),
			HourlyWage:           res.HourlyWage.Int64(),
			MonthlyRegularHours:  res.MonthlyRegularHours.InexactFloat64(),
			Allowances:           lines,
			TaxableAllowances:    res.TaxableAllowances.Int64(),
			NonTaxableAllowances: res.NonTaxableAllowances.Int64(),
			Overtime:             PremiumDTO{Hours: hours(ot.OvertimeHours), Pay: ot.OvertimePay.Int64()},
			Night:                PremiumDTO{Hours: hours(ot.NightHours), Pay: ot.NightPay.Int64()},
			Holiday:              PremiumDTO{Hours: hours(ot.HolidayHours), Pay: ot.HolidayPay.Int64()},
			InclusiveOvertimePay: res.InclusiveOvertimePay.Int64(),
			WeeklyHoliday: WeeklyHolidayDTO{
				Pay:                res.WeeklyHoliday.WeeklyHolidayPay.Int64(),
				AverageWeeklyHours: hours(res.WeeklyHoliday.AverageWeeklyHours),
				QualifyingWeeks:    res.WeeklyHoliday.QualifyingWeeks,
				EvaluatedWeeks:     res.WeeklyHoliday.EvaluatedWeeks,
				IsProportional:     res.WeeklyHoliday.IsProportional,
			},
			Total:   res.TotalGross.Int64(),
			Taxable: res.TaxableGross.Int64(),
		},
		Deductions: DeductionsDTO{
			Insurance: toInsuranceDTO(res.Insurance),
			Tax:       toTaxDTO(res.Tax),
			Total:     res.TotalDeductions.Int64(),
		},
		NetPay:   res.NetPay.Int64(),
		Warnings: warnings,
	}

	if ws := res.WorkSummary; ws.Shifts > 0 {
		out.WorkSummary = &WorkSummaryDTO{
			Shifts:       ws.Shifts,
			WorkDays:     ws.WorkDays,
			TotalHours:   hours(ws.TotalHours),
			RegularHours: hours(ws.RegularHours),
			HolidayHours: hours(ws.HolidayHours),
			NightHours:   hours(ws.NightHours),
		}
	}
	if a := res.Absence; a != nil {
		out.Absence = &AbsenceDTO{
			ScheduledDays:  a.ScheduledDays,
			ActualWorkDays: a.ActualWorkDays,
			AbsentDays:     a.AbsentDays,
			AbsentWeeks:    a.AbsentWeeks,
			DailyWage:      a.DailyWage.Int64(),
			WageDeduction:  a.WageDeduction.Int64(),
			HolidayPayLoss: a.HolidayPayLoss.Int64(),
			TotalDeduction: a.TotalDeduction.Int64(),
		}
	}
	if res.AppliedWageMode != "" {
		out.Contract = &ContractDTO{
			AppliedWageMode: res.AppliedWageMode,
			Difference:      res.ContractDifference.Int64(),
			Allowance:       res.ContractGuaranteeAllowance.Int64(),
		}
	}
	return out
}

// =============================================================================
// REVERSE
// =============================================================================

// ReverseRequest searches the base salary (or hourly rate) for a target net
// pay. The embedded salary fields describe everything else.
type ReverseRequest struct {
	TargetNetPay int64 `json:"target_net_pay"`
	SalaryRequest
}

type ReverseResponse struct {
	TargetNetPay       int64          `json:"target_net_pay"`
	RequiredBaseSalary int64          `json:"required_base_salary"`
	ActualNetPay       int64          `json:"actual_net_pay"`
	Difference         int64          `json:"difference"`
	Iterations         int            `json:"iterations"`
	Result             SalaryResponse `json:"result"`
	RecordID           string         `json:"record_id,omitempty"`
}

// =============================================================================
// DEDUCTIONS
// =============================================================================

type InsuranceRequest struct {
	Income    int64               `json:"income"`
	Year      int                 `json:"year,omitempty"`
	Insurance InsuranceOptionsDTO `json:"insurance"`
}

type TaxRequest struct {
	Income          int64 `json:"income"`
	DependentsCount int   `json:"dependents_count"`
	ChildrenUnder20 int   `json:"children_under_20"`
	Year            int   `json:"year,omitempty"`
}

type TaxResponse struct {
	TaxDTO
	AnnualEstimate int64 `json:"annual_estimate"`
}

// =============================================================================
// SIMULATION
// =============================================================================

type SimulationRequest struct {
	MonthlyTotal          int64           `json:"monthly_total"`
	WeeklyHours           int             `json:"weekly_hours,omitempty"`
	ExpectedOvertimeHours decimal.Decimal `json:"expected_overtime_hours"`
	ExpectedNightHours    decimal.Decimal `json:"expected_night_hours"`
	ExpectedHolidayHours  decimal.Decimal `json:"expected_holiday_hours"`
	RatioA                decimal.Decimal `json:"ratio_a"`
	RatioB                decimal.Decimal `json:"ratio_b"`
	Year                  int             `json:"year,omitempty"`
}

func (r SimulationRequest) toInput() calculator.SimulationInput {
	return calculator.SimulationInput{
		MonthlyTotal:          payroll.NewMoney(r.MonthlyTotal),
		WeeklyHours:           r.WeeklyHours,
		ExpectedOvertimeHours: r.ExpectedOvertimeHours,
		ExpectedNightHours:    r.ExpectedNightHours,
		ExpectedHolidayHours:  r.ExpectedHolidayHours,
		RatioA:                r.RatioA,
		RatioB:                r.RatioB,
	}
}

type PlanDTO struct {
	Name               string            `json:"name"`
	BaseSalary         int64             `json:"base_salary"`
	Allowances         int64             `json:"allowances"`
	MonthlyTotal       int64             `json:"monthly_total"`
	MonthlyHours       float64           `json:"monthly_hours"`
	HourlyWage         int64             `json:"hourly_wage"`
	OvertimePay        int64             `json:"overtime_pay"`
	NightPay           int64             `json:"night_pay"`
	HolidayPay         int64             `json:"holiday_pay"`
	WeeklyHolidayPay   int64             `json:"weekly_holiday_pay"`
	SeverancePay       int64             `json:"severance_pay"`
	AnnualLeavePay     int64             `json:"annual_leave_pay"`
	AnnualEmployerCost int64             `json:"annual_employer_cost"`
	Formulas           map[string]string `json:"formulas"`
}

type SimulationResponse struct {
	PlanA      PlanDTO `json:"plan_a"`
	PlanB      PlanDTO `json:"plan_b"`
	Difference struct {
		HourlyWage        int64   `json:"hourly_wage"`
		OvertimePay       int64   `json:"overtime_pay"`
		SeverancePay      int64   `json:"severance_pay"`
		AnnualCost        int64   `json:"annual_cost"`
		AnnualCostPercent float64 `json:"annual_cost_percent"`
	} `json:"difference"`
	Recommendation string `json:"recommendation"`
}

func toPlanDTO(p calculator.SimulationPlan) PlanDTO {
	return PlanDTO{
		Name:               p.Name,
		BaseSalary:         p.BaseSalary.Int64(),
		Allowances:         p.Allowances.Int64(),
		MonthlyTotal:       p.MonthlyTotal.Int64(),
		MonthlyHours:       p.MonthlyHours.InexactFloat64(),
		HourlyWage:         p.HourlyWage.Int64(),
		OvertimePay:        p.OvertimePay.Int64(),
		NightPay:           p.NightPay.Int64(),
		HolidayPay:         p.HolidayPay.Int64(),
		WeeklyHolidayPay:   p.WeeklyHolidayPay.Int64(),
		SeverancePay:       p.SeverancePay.Int64(),
		AnnualLeavePay:     p.AnnualLeavePay.Int64(),
		AnnualEmployerCost: p.AnnualEmployerCost.Int64(),
		Formulas: map[string]string{
			"hourly_wage": p.Formulas.HourlyWage,
			"overtime":    p.Formulas.Overtime,
			"severance":   p.Formulas.Severance,
			"annual_cost": p.Formulas.AnnualCost,
		},
	}
}

func toSimulationResponse(c calculator.SimulationComparison) SimulationResponse {
	out := SimulationResponse{
		PlanA:          toPlanDTO(c.PlanA),
		PlanB:          toPlanDTO(c.PlanB),
		Recommendation: c.Recommendation,
	}
	out.Difference.HourlyWage = c.Difference.HourlyWage.Int64()
	out.Difference.OvertimePay = c.Difference.OvertimePay.Int64()
	out.Difference.SeverancePay = c.Difference.SeverancePay.Int64()
	out.Difference.AnnualCost = c.Difference.AnnualCost.Int64()
	out.Difference.AnnualCostPercent = c.Difference.AnnualCostPercent.InexactFloat64()
	return out
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

// RatesDTO is one year of statutory constants.
type RatesDTO struct {
	Year        int   `json:"year"`
	MinimumWage int64 `json:"minimum_wage"`
	Insurance   struct {
		PensionRate       string `json:"pension_rate"`
		PensionMinBase    int64  `json:"pension_min_base"`
		PensionMaxBase    int64  `json:"pension_max_base"`
		HealthRate        string `json:"health_rate"`
		LongTermCareRate  string `json:"long_term_care_rate"`
		EmploymentRate    string `json:"employment_rate"`
		EmploymentMaxBase int64  `json:"employment_max_base"`
	} `json:"insurance"`
	Premiums struct {
		Overtime        string `json:"overtime"`
		Night           string `json:"night"`
		Holiday         string `json:"holiday"`
		HolidayExtended string `json:"holiday_extended"`
	} `json:"premiums"`
	WorkingTime struct {
		DailyRegularHours        int    `json:"daily_regular_hours"`
		WeeklyRegularHours       int    `json:"weekly_regular_hours"`
		WeeklyMaxHours           int    `json:"weekly_max_hours"`
		WeeklyOvertimeLimitHours int    `json:"weekly_overtime_limit_hours"`
		WeeklyHolidayMinHours    int    `json:"weekly_holiday_min_hours"`
		WeeksPerMonth            string `json:"weeks_per_month"`
	} `json:"working_time"`
	LocalTaxRate string       `json:"local_tax_rate"`
	TaxBrackets  int          `json:"tax_brackets"`
	Holidays     []HolidayDTO `json:"holidays"`
}

func toRatesDTO(t *rates.Table) RatesDTO {
	var out RatesDTO
	out.Year = t.Year
	out.MinimumWage = t.MinimumWageMoney().Int64()

	in := t.Insurance
	out.Insurance.PensionRate = in.PensionRate.String()
	out.Insurance.PensionMinBase = in.PensionMinBase.IntPart()
	out.Insurance.PensionMaxBase = in.PensionMaxBase.IntPart()
	out.Insurance.HealthRate = in.HealthRate.String()
	out.Insurance.LongTermCareRate = in.LongTermCareRate.String()
	out.Insurance.EmploymentRate = in.EmploymentRate.String()
	out.Insurance.EmploymentMaxBase = in.EmploymentMaxBase.IntPart()

	out.Premiums.Overtime = t.Premiums.Overtime.String()
	out.Premiums.Night = t.Premiums.Night.String()
	out.Premiums.Holiday = t.Premiums.Holiday.String()
	out.Premiums.HolidayExtended = t.Premiums.HolidayExtended.String()

	wt := t.WorkingTime
	out.WorkingTime.DailyRegularHours = wt.DailyRegularHours
	out.WorkingTime.WeeklyRegularHours = wt.WeeklyRegularHours
	out.WorkingTime.WeeklyMaxHours = wt.WeeklyMaxHours
	out.WorkingTime.WeeklyOvertimeLimitHours = wt.WeeklyOvertimeLimitHours
	out.WorkingTime.WeeklyHolidayMinHours = wt.WeeklyHolidayMinHours
	out.WorkingTime.WeeksPerMonth = wt.WeeksPerMonth.String()

	out.LocalTaxRate = t.Tax.LocalTaxRate.String()
	out.TaxBrackets = len(t.Tax.Brackets)
	out.Holidays = toHolidayDTOs(t.Holidays)
	return out
}

type HolidayDTO struct {
	ID              string `json:"id,omitempty"`
	Date            string `json:"date"`
	Name            string `json:"name"`
	AllCompanySizes bool   `json:"all_company_sizes"`
}

func toHolidayDTOs(hs []payroll.Holiday) []HolidayDTO {
	out := make([]HolidayDTO, 0, len(hs))
	for _, h := range hs {
		out = append(out, HolidayDTO{
			ID:              h.ID,
			Date:            h.Date.Format(time.DateOnly),
			Name:            h.Name,
			AllCompanySizes: h.AllCompanySizes,
		})
	}
	return out
}

// RecordDTO is a stored calculation. Payload is the response that was
// returned when the record was saved; list views leave it out.
type RecordDTO struct {
	ID           string          `json:"id"`
	Kind         string          `json:"kind"`
	EmployeeName string          `json:"employee_name"`
	Month        string          `json:"month"`
	NetPay       int64           `json:"net_pay"`
	TotalGross   int64           `json:"total_gross"`
	CreatedAt    string          `json:"created_at"`
	Payload      json.RawMessage `json:"payload,omitempty"`
}

func toRecordDTO(r sqlite.CalculationRecord) RecordDTO {
	return RecordDTO{
		ID:           r.ID,
		Kind:         r.Kind,
		EmployeeName: r.EmployeeName,
		Month:        r.Month,
		NetPay:       r.NetPay,
		TotalGross:   r.TotalGross,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		Payload:      json.RawMessage(r.Payload),
	}
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
