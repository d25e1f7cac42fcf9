package payroll

import (
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// ALLOWANCE - A pay line on top of the base wage
// =============================================================================

// Allowance classifies an amount for the three bases a payslip needs:
//   - regular wage (통상임금): the basis for the hourly wage
//   - taxable gross: what insurance and income tax are levied on
//   - minimum-wage inclusion
//
// Typical shapes:
//
//	position allowance: taxable, regular, fixed
//	meal allowance:     non-taxable, not regular, fixed
//	overtime allowance: taxable, not regular, variable
type Allowance struct {
	id                    uuid.UUID
	name                  string
	amount                Money
	taxable               bool
	includedInMinimumWage bool
	fixed                 bool
	includedInRegularWage bool
}

type AllowanceParams struct {
	ID                    uuid.UUID
	Name                  string
	Amount                Money
	Taxable               bool
	IncludedInMinimumWage bool
	Fixed                 bool
	IncludedInRegularWage bool
}

func NewAllowance(p AllowanceParams) (Allowance, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return Allowance{}, invalid("allowance.name", "cannot be empty")
	}
	if p.Amount.IsNegative() {
		return Allowance{}, invalid("allowance.amount", "cannot be negative: %s", p.Amount.Amount())
	}

	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return Allowance{
		id:                    id,
		name:                  name,
		amount:                p.Amount,
		taxable:               p.Taxable,
		includedInMinimumWage: p.IncludedInMinimumWage,
		fixed:                 p.Fixed,
		includedInRegularWage: p.IncludedInRegularWage,
	}, nil
}

func (a Allowance) ID() uuid.UUID                 { return a.id }
func (a Allowance) Name() string                  { return a.name }
func (a Allowance) Amount() Money                 { return a.amount }
func (a Allowance) IsTaxable() bool               { return a.taxable }
func (a Allowance) IsNonTaxable() bool            { return !a.taxable }
func (a Allowance) IsIncludedInMinimumWage() bool { return a.includedInMinimumWage }
func (a Allowance) IsFixed() bool                 { return a.fixed }
func (a Allowance) IsRegularWage() bool           { return a.includedInRegularWage }

// =============================================================================
// PRESETS
// =============================================================================

// MealAllowance is non-taxable and outside the regular wage.
func MealAllowance(amount Money) (Allowance, error) {
	return NewAllowance(AllowanceParams{
		Name:   "meal",
		Amount: amount,
		Fixed:  true,
	})
}

// PositionAllowance is taxable, fixed and part of the regular wage.
func PositionAllowance(amount Money) (Allowance, error) {
	return NewAllowance(AllowanceParams{
		Name:                  "position",
		Amount:                amount,
		Taxable:               true,
		IncludedInMinimumWage: true,
		Fixed:                 true,
		IncludedInRegularWage: true,
	})
}

// OvertimeAllowance is taxable, variable and outside the regular wage.
func OvertimeAllowance(amount Money) (Allowance, error) {
	return NewAllowance(AllowanceParams{
		Name:    "overtime",
		Amount:  amount,
		Taxable: true,
	})
}

// SumAllowances totals the amounts of allowances matching keep (nil keeps all).
func SumAllowances(allowances []Allowance, keep func(Allowance) bool) Money {
	total := Zero()
	for _, a := range allowances {
		if keep == nil || keep(a) {
			total = total.Add(a.amount)
		}
	}
	return total
}
