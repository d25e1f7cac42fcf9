package rates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// YAML SCHEMA TYPES
// =============================================================================

type documentYAML struct {
	Years []yearYAML `yaml:"years"`
}

type yearYAML struct {
	Year        int             `yaml:"year"`
	MinimumWage string          `yaml:"minimum_wage"`
	Insurance   insuranceYAML   `yaml:"insurance"`
	Premiums    premiumsYAML    `yaml:"premiums"`
	WorkingTime workingTimeYAML `yaml:"working_time"`
	Tax         taxYAML         `yaml:"tax"`
	Holidays    []holidayYAML   `yaml:"holidays"`
}

type insuranceYAML struct {
	Pension      rateYAML `yaml:"pension"`
	Health       rateYAML `yaml:"health"`
	LongTermCare rateYAML `yaml:"long_term_care"`
	Employment   rateYAML `yaml:"employment"`
}

type rateYAML struct {
	Rate    string `yaml:"rate"`
	MinBase string `yaml:"min_base,omitempty"`
	MaxBase string `yaml:"max_base,omitempty"`
}

type premiumsYAML struct {
	Overtime        string `yaml:"overtime"`
	Night           string `yaml:"night"`
	Holiday         string `yaml:"holiday"`
	HolidayExtended string `yaml:"holiday_extended"`
}

type workingTimeYAML struct {
	DailyRegularHours        int    `yaml:"daily_regular_hours"`
	WeeklyRegularHours       int    `yaml:"weekly_regular_hours"`
	WeeklyMaxHours           int    `yaml:"weekly_max_hours"`
	WeeklyOvertimeLimitHours int    `yaml:"weekly_overtime_limit_hours"`
	WeeklyHolidayMinHours    int    `yaml:"weekly_holiday_min_hours"`
	WeeksPerMonth            string `yaml:"weeks_per_month"`
}

type taxYAML struct {
	LocalTaxRate  string        `yaml:"local_tax_rate"`
	MaxDependents int           `yaml:"max_dependents"`
	Brackets      []bracketYAML `yaml:"brackets"`
}

type bracketYAML struct {
	Min int64   `yaml:"min"`
	Max int64   `yaml:"max"`
	Tax []int64 `yaml:"tax"`
}

type holidayYAML struct {
	Date     string `yaml:"date"`
	Name     string `yaml:"name"`
	AllSizes bool   `yaml:"all_sizes,omitempty"`
}

// =============================================================================
// CONVERSION & VALIDATION
// =============================================================================

// decimals parses named decimal fields, keeping the first failure.
type decimals struct {
	err error
}

func (d *decimals) parse(field, s string) decimal.Decimal {
	if d.err != nil {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		d.err = fmt.Errorf("%s: not a decimal: %q", field, s)
		return decimal.Zero
	}
	if v.IsNegative() {
		d.err = fmt.Errorf("%s: cannot be negative: %s", field, s)
	}
	return v
}

// optional parses s, or returns zero when it is empty.
func (d *decimals) optional(field, s string) decimal.Decimal {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero
	}
	return d.parse(field, s)
}

func (y yearYAML) toTable() (*Table, error) {
	if y.Year < 1 {
		return nil, fmt.Errorf("year is required")
	}

	var d decimals
	t := &Table{
		Year:        y.Year,
		MinimumWage: d.parse("minimum_wage", y.MinimumWage),
		Insurance: InsuranceRates{
			PensionRate:       d.parse("insurance.pension.rate", y.Insurance.Pension.Rate),
			PensionMinBase:    d.optional("insurance.pension.min_base", y.Insurance.Pension.MinBase),
			PensionMaxBase:    d.parse("insurance.pension.max_base", y.Insurance.Pension.MaxBase),
			HealthRate:        d.parse("insurance.health.rate", y.Insurance.Health.Rate),
			LongTermCareRate:  d.parse("insurance.long_term_care.rate", y.Insurance.LongTermCare.Rate),
			EmploymentRate:    d.parse("insurance.employment.rate", y.Insurance.Employment.Rate),
			EmploymentMaxBase: d.parse("insurance.employment.max_base", y.Insurance.Employment.MaxBase),
		},
		Premiums: PremiumRates{
			Overtime:        d.parse("premiums.overtime", y.Premiums.Overtime),
			Night:           d.parse("premiums.night", y.Premiums.Night),
			Holiday:         d.parse("premiums.holiday", y.Premiums.Holiday),
			HolidayExtended: d.parse("premiums.holiday_extended", y.Premiums.HolidayExtended),
		},
		WorkingTime: WorkingTime{
			DailyRegularHours:        y.WorkingTime.DailyRegularHours,
			WeeklyRegularHours:       y.WorkingTime.WeeklyRegularHours,
			WeeklyMaxHours:           y.WorkingTime.WeeklyMaxHours,
			WeeklyOvertimeLimitHours: y.WorkingTime.WeeklyOvertimeLimitHours,
			WeeklyHolidayMinHours:    y.WorkingTime.WeeklyHolidayMinHours,
			WeeksPerMonth:            d.parse("working_time.weeks_per_month", y.WorkingTime.WeeksPerMonth),
		},
		Tax: TaxTable{
			LocalTaxRate:  d.parse("tax.local_tax_rate", y.Tax.LocalTaxRate),
			MaxDependents: y.Tax.MaxDependents,
		},
	}
	if d.err != nil {
		return nil, d.err
	}

	if t.Insurance.PensionMaxBase.LessThan(t.Insurance.PensionMinBase) {
		return nil, fmt.Errorf("insurance.pension: max_base below min_base")
	}
	wt := t.WorkingTime
	if wt.DailyRegularHours <= 0 || wt.WeeklyRegularHours <= 0 || wt.WeeklyMaxHours <= 0 {
		return nil, fmt.Errorf("working_time: hour limits must be positive")
	}
	if !wt.WeeksPerMonth.IsPositive() {
		return nil, fmt.Errorf("working_time.weeks_per_month must be positive")
	}

	brackets, err := y.Tax.brackets()
	if err != nil {
		return nil, err
	}
	t.Tax.Brackets = brackets

	holidays, err := y.holidays()
	if err != nil {
		return nil, err
	}
	t.Holidays = holidays
	return t, nil
}

func (tx taxYAML) brackets() ([]TaxBracket, error) {
	if tx.MaxDependents < 1 {
		return nil, fmt.Errorf("tax.max_dependents must be at least 1")
	}
	if len(tx.Brackets) == 0 {
		return nil, fmt.Errorf("tax.brackets: at least one bracket is required")
	}

	out := make([]TaxBracket, 0, len(tx.Brackets))
	for i, b := range tx.Brackets {
		if b.Max <= b.Min {
			return nil, fmt.Errorf("tax.brackets[%d]: max %d must exceed min %d", i, b.Max, b.Min)
		}
		if i > 0 && b.Min != tx.Brackets[i-1].Max {
			return nil, fmt.Errorf("tax.brackets[%d]: starts at %d, previous ends at %d", i, b.Min, tx.Brackets[i-1].Max)
		}
		if len(b.Tax) != tx.MaxDependents {
			return nil, fmt.Errorf("tax.brackets[%d]: %d tax columns, want %d", i, len(b.Tax), tx.MaxDependents)
		}
		for _, v := range b.Tax {
			if v < 0 {
				return nil, fmt.Errorf("tax.brackets[%d]: negative tax %d", i, v)
			}
		}
		out = append(out, TaxBracket{Min: b.Min, Max: b.Max, Tax: append([]int64(nil), b.Tax...)})
	}
	return out, nil
}

func (y yearYAML) holidays() ([]payroll.Holiday, error) {
	out := make([]payroll.Holiday, 0, len(y.Holidays))
	for i, h := range y.Holidays {
		date, err := payroll.ParseDate(h.Date)
		if err != nil {
			return nil, fmt.Errorf("holidays[%d]: %v", i, err)
		}
		if date.Year() != y.Year {
			return nil, fmt.Errorf("holidays[%d]: %s is outside %d", i, h.Date, y.Year)
		}
		out = append(out, payroll.Holiday{
			ID:              fmt.Sprintf("statutory-%s", date.Format("2006-01-02")),
			Date:            date,
			Name:            strings.TrimSpace(h.Name),
			AllCompanySizes: h.AllSizes,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
