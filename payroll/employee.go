package payroll

import (
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// EMPLOYEE - Who is being paid
// =============================================================================

type EmploymentType string

const (
	FullTime  EmploymentType = "FULL_TIME"
	PartTime  EmploymentType = "PART_TIME"
	Contract  EmploymentType = "CONTRACT"
	Temporary EmploymentType = "TEMPORARY"
)

func (t EmploymentType) Valid() bool {
	switch t {
	case FullTime, PartTime, Contract, Temporary:
		return true
	}
	return false
}

// CompanySize splits workplaces at five employees. The labor act treats them
// differently: holiday work over 8h earns 2.0x and public holidays are paid
// rest days only at OVER_5 workplaces.
type CompanySize string

const (
	CompanyUnder5 CompanySize = "UNDER_5"
	CompanyOver5  CompanySize = "OVER_5"
)

func (s CompanySize) Valid() bool { return s == CompanyUnder5 || s == CompanyOver5 }

// Employee is immutable; build it with NewEmployee.
type Employee struct {
	id                uuid.UUID
	name              string
	dependentsCount   int
	childrenUnder20   int
	employmentType    EmploymentType
	companySize       CompanySize
	scheduledWorkDays int
}

// EmployeeParams carries the constructor inputs. ScheduledWorkDays defaults to 5.
type EmployeeParams struct {
	ID                uuid.UUID
	Name              string
	DependentsCount   int
	ChildrenUnder20   int
	EmploymentType    EmploymentType
	CompanySize       CompanySize
	ScheduledWorkDays int
}

// NewEmployee validates p and returns the employee.
//
// Invariants:
//   - dependents_count >= 0, children_under_20 >= 0
//   - children_under_20 <= dependents_count
//   - scheduled_work_days in 1..7
func NewEmployee(p EmployeeParams) (Employee, error) {
	if p.ScheduledWorkDays == 0 {
		p.ScheduledWorkDays = 5
	}
	if p.EmploymentType == "" {
		p.EmploymentType = FullTime
	}
	if p.CompanySize == "" {
		p.CompanySize = CompanyOver5
	}

	switch {
	case p.DependentsCount < 0:
		return Employee{}, invalid("dependents_count", "cannot be negative: %d", p.DependentsCount)
	case p.ChildrenUnder20 < 0:
		return Employee{}, invalid("children_under_20", "cannot be negative: %d", p.ChildrenUnder20)
	case p.ChildrenUnder20 > p.DependentsCount:
		return Employee{}, invalid("children_under_20", "%d exceeds dependents count %d", p.ChildrenUnder20, p.DependentsCount)
	case p.ScheduledWorkDays < 1 || p.ScheduledWorkDays > 7:
		return Employee{}, invalid("scheduled_work_days", "must be between 1 and 7: %d", p.ScheduledWorkDays)
	case !p.EmploymentType.Valid():
		return Employee{}, invalid("employment_type", "unknown value %q", p.EmploymentType)
	case !p.CompanySize.Valid():
		return Employee{}, invalid("company_size", "unknown value %q", p.CompanySize)
	}

	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	return Employee{
		id:                id,
		name:              strings.TrimSpace(p.Name),
		dependentsCount:   p.DependentsCount,
		childrenUnder20:   p.ChildrenUnder20,
		employmentType:    p.EmploymentType,
		companySize:       p.CompanySize,
		scheduledWorkDays: p.ScheduledWorkDays,
	}, nil
}

func (e Employee) ID() uuid.UUID                  { return e.id }
func (e Employee) Name() string                   { return e.name }
func (e Employee) DependentsCount() int           { return e.dependentsCount }
func (e Employee) ChildrenUnder20() int           { return e.childrenUnder20 }
func (e Employee) EmploymentType() EmploymentType { return e.employmentType }
func (e Employee) CompanySize() CompanySize       { return e.companySize }
func (e Employee) ScheduledWorkDays() int         { return e.scheduledWorkDays }

func (e Employee) IsFullTime() bool     { return e.employmentType == FullTime }
func (e Employee) IsPartTime() bool     { return e.employmentType == PartTime }
func (e Employee) IsLargeCompany() bool { return e.companySize == CompanyOver5 }
func (e Employee) IsSmallCompany() bool { return e.companySize == CompanyUnder5 }
