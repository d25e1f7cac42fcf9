package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// REVERSE SALARY - Target net pay to required base pay
// =============================================================================

const (
	reverseMaxIterations = 50
	reverseMaxExpansions = 5
	reverseTolerance     = 1000 // won
)

var (
	reverseLowerFactor  = decimal.RequireFromString("0.5")
	reverseUpperFactor  = decimal.RequireFromString("1.5")
	reverseExpandFactor = decimal.RequireFromString("1.5")
)

// ReverseSalaryResult is the best candidate found by the search. For HOURLY
// wages RequiredBaseSalary is the hourly rate.
type ReverseSalaryResult struct {
	TargetNetPay       payroll.Money
	RequiredBaseSalary payroll.Money
	ActualNetPay       payroll.Money
	Difference         payroll.Money // |actual - target|
	Iterations         int
	Result             *SalaryCalculationResult
}

type ReverseSalaryCalculator struct {
	salary *SalaryCalculator
}

func NewReverseSalaryCalculator(salary *SalaryCalculator) *ReverseSalaryCalculator {
	return &ReverseSalaryCalculator{salary: salary}
}

// Calculate binary-searches the base salary (MONTHLY) or hourly rate
// (HOURLY) whose forward net pay is closest to target. The search stops as
// soon as a candidate lands within 1,000 won, and otherwise returns the
// closest candidate seen in 50 iterations. in.BaseSalary and in.HourlyRate
// are ignored.
func (c *ReverseSalaryCalculator) Calculate(target payroll.Money, in SalaryInput) (*ReverseSalaryResult, error) {
	if !target.RoundToWon().IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTarget, target.Format())
	}
	goal := target.RoundToWon().Int64()
	hourly := in.WageType == WageHourly

	lower := max(1, target.Mul(reverseLowerFactor).Amount().IntPart())
	if hourly {
		lower = 1
	}
	upper := target.Mul(reverseUpperFactor).Amount().IntPart()

	for i := 0; i < reverseMaxExpansions; i++ {
		res, err := c.forward(in, upper, hourly)
		if err != nil {
			return nil, err
		}
		if res.NetPay.Int64() >= goal {
			break
		}
		// Rounded up so that small bounds still grow.
		upper = max(upper+1, decimal.NewFromInt(upper).Mul(reverseExpandFactor).Ceil().IntPart())
	}

	var (
		best      *SalaryCalculationResult
		bestValue int64
		bestDiff  int64 = -1
		iters     int
	)
	for lower <= upper && iters < reverseMaxIterations {
		iters++
		mid := (lower + upper) / 2

		res, err := c.forward(in, mid, hourly)
		if err != nil {
			return nil, err
		}
		diff := res.NetPay.Int64() - goal
		if abs64(diff) < bestDiff || bestDiff < 0 {
			best, bestValue, bestDiff = res, mid, abs64(diff)
		}

		switch {
		case abs64(diff) <= reverseTolerance:
			lower = upper + 1
		case diff < 0:
			lower = mid + 1
		default:
			upper = mid - 1
		}
	}
	if best == nil {
		return nil, ErrNoCandidate
	}

	return &ReverseSalaryResult{
		TargetNetPay:       target,
		RequiredBaseSalary: payroll.NewMoney(bestValue),
		ActualNetPay:       best.NetPay,
		Difference:         payroll.NewMoney(bestDiff),
		Iterations:         iters,
		Result:             best,
	}, nil
}

func (c *ReverseSalaryCalculator) forward(in SalaryInput, candidate int64, hourly bool) (*SalaryCalculationResult, error) {
	if hourly {
		in.HourlyRate = payroll.NewMoney(candidate)
		in.BaseSalary = payroll.Zero()
	} else {
		in.BaseSalary = payroll.NewMoney(candidate)
		in.HourlyRate = payroll.Zero()
	}
	res, err := c.salary.Calculate(in)
	if err != nil {
		return nil, fmt.Errorf("forward calculation at %d: %w", candidate, err)
	}
	return res, nil
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
