package calculator

import (
	"fmt"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/rates"
)

// =============================================================================
// INSURANCE - The four mandatory social insurances (employee share)
// =============================================================================

// InsuranceResult is the employee's share of each insurance. Bases are the
// amounts each rate was applied to after clamping; an exempted insurance
// reports a zero base.
type InsuranceResult struct {
	NationalPension     payroll.Money
	PensionBase         payroll.Money
	HealthInsurance     payroll.Money
	HealthBase          payroll.Money
	LongTermCare        payroll.Money
	EmploymentInsurance payroll.Money
	EmploymentBase      payroll.Money
	Income              payroll.Money
	Options             InsuranceOptions
}

func (r InsuranceResult) Total() payroll.Money {
	return payroll.Sum(r.NationalPension, r.HealthInsurance, r.LongTermCare, r.EmploymentInsurance)
}

type InsuranceCalculator struct {
	rates rates.InsuranceRates
}

func NewInsuranceCalculator(table *rates.Table) *InsuranceCalculator {
	return &InsuranceCalculator{rates: table.Insurance}
}

// Calculate levies the insurances on taxable income:
//   - pension: rate x income clamped to [min base, max base]
//   - health: rate x income, uncapped
//   - long-term care: rate x the health contribution
//   - employment: rate x income capped at max base
//
// Each component is rounded to the won on its own.
func (c *InsuranceCalculator) Calculate(income payroll.Money, opts InsuranceOptions) (InsuranceResult, error) {
	if income.IsNegative() {
		return InsuranceResult{}, fmt.Errorf("%w: %s", ErrNegativeIncome, income.Format())
	}

	res := InsuranceResult{
		NationalPension:     zero,
		PensionBase:         zero,
		HealthInsurance:     zero,
		HealthBase:          zero,
		LongTermCare:        zero,
		EmploymentInsurance: zero,
		EmploymentBase:      zero,
		Income:              income,
		Options:             opts,
	}

	if !opts.ExemptPension {
		res.PensionBase = c.pensionBase(income)
		res.NationalPension = res.PensionBase.Mul(c.rates.PensionRate).RoundToWon()
	}

	if !opts.ExemptHealth {
		res.HealthBase = income
		res.HealthInsurance = income.Mul(c.rates.HealthRate).RoundToWon()
		if !opts.ExemptLongTermCare {
			res.LongTermCare = res.HealthInsurance.Mul(c.rates.LongTermCareRate).RoundToWon()
		}
	}

	if !opts.ExemptEmployment {
		res.EmploymentBase = income.Min(payroll.NewMoneyFromDecimal(c.rates.EmploymentMaxBase))
		res.EmploymentInsurance = res.EmploymentBase.Mul(c.rates.EmploymentRate).RoundToWon()
	}

	return res, nil
}

func (c *InsuranceCalculator) pensionBase(income payroll.Money) payroll.Money {
	lo := payroll.NewMoneyFromDecimal(c.rates.PensionMinBase)
	hi := payroll.NewMoneyFromDecimal(c.rates.PensionMaxBase)
	return income.Max(lo).Min(hi)
}
