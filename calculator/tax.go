package calculator

import (
	"fmt"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/rates"
)

// =============================================================================
// TAX - Monthly income tax withholding
// =============================================================================

type TaxResult struct {
	IncomeTax           payroll.Money
	LocalIncomeTax      payroll.Money
	TaxableIncome       payroll.Money
	DependentsCount     int
	ChildrenUnder20     int
	EffectiveDependents int // after clamping to the table's columns
}

func (r TaxResult) Total() payroll.Money {
	return r.IncomeTax.Add(r.LocalIncomeTax)
}

type TaxCalculator struct {
	table rates.TaxTable
}

func NewTaxCalculator(table *rates.Table) *TaxCalculator {
	return &TaxCalculator{table: table.Tax}
}

// Calculate looks up the withholding for the taxable income rounded to the
// won. Each child under 20 counts as one more dependent; the total is clamped
// to [1, max dependents]. Local income tax is 10% of income tax.
func (c *TaxCalculator) Calculate(income payroll.Money, dependents, childrenUnder20 int) (TaxResult, error) {
	if income.IsNegative() {
		return TaxResult{}, fmt.Errorf("%w: %s", ErrNegativeIncome, income.Format())
	}

	effective := dependents + childrenUnder20
	if effective < 1 {
		effective = 1
	}
	if effective > c.table.MaxDependents {
		effective = c.table.MaxDependents
	}

	incomeTax := payroll.NewMoney(c.table.Lookup(income.Int64(), effective))
	return TaxResult{
		IncomeTax:           incomeTax,
		LocalIncomeTax:      incomeTax.Mul(c.table.LocalTaxRate).RoundToWon(),
		TaxableIncome:       income,
		DependentsCount:     dependents,
		ChildrenUnder20:     childrenUnder20,
		EffectiveDependents: effective,
	}, nil
}

// EstimateAnnual projects the monthly withholding over twelve months.
func (c *TaxCalculator) EstimateAnnual(income payroll.Money, dependents, childrenUnder20 int) (payroll.Money, error) {
	res, err := c.Calculate(income, dependents, childrenUnder20)
	if err != nil {
		return payroll.Money{}, err
	}
	return EstimateAnnualTax(res.Total()), nil
}

// EstimateAnnualTax is monthlyTotal x 12. The simplified table is an
// estimate; year-end settlement may differ.
func EstimateAnnualTax(monthlyTotal payroll.Money) payroll.Money {
	return monthlyTotal.MulInt(12)
}
