package employees

import (
	"github.com/uptrace/bun"
)

// DateLayout is the wire and storage format of every date field
const DateLayout = "2006-01-02"

// IdentificationType is the kind of national identifier on file
type IdentificationType string

const (
	IdentificationAadhar IdentificationType = "Aadhar"
	IdentificationSSN    IdentificationType = "SSN"
)

// Status is the employment status
type Status string

const (
	StatusEmployed   Status = "Employed"
	StatusResigned   Status = "Resigned"
	StatusTerminated Status = "Terminated"
)

// EmploymentType is the kind of contract
type EmploymentType string

const (
	EmploymentPermanent  EmploymentType = "Permanent"
	EmploymentContractor EmploymentType = "Contractor"
	EmploymentIntern     EmploymentType = "Intern"
)

// Role is the job role
type Role string

const (
	RoleDeveloper         Role = "Developer"
	RoleTeamLead          Role = "Team Lead"
	RoleProjectManager    Role = "Project Manager"
	RoleHRExecutive       Role = "HR Executive"
	RoleHRManager         Role = "HR Manager"
	RoleArchitect         Role = "Architect"
	RoleDeliveryManager   Role = "Delivery Manager"
	RoleCOO               Role = "COO"
	RoleCTO               Role = "CTO"
	RoleCEO               Role = "CEO"
	RoleAccountsExecutive Role = "Accounts Executive"
	RoleAccountsManager   Role = "Accounts Manager"
	RoleFinanceManager    Role = "Finance Manager"
	RoleCFO               Role = "CFO"
)

// Roles lists every job role
var Roles = []Role{
	RoleDeveloper, RoleTeamLead, RoleProjectManager, RoleHRExecutive, RoleHRManager,
	RoleArchitect, RoleDeliveryManager, RoleCOO, RoleCTO, RoleCEO,
	RoleAccountsExecutive, RoleAccountsManager, RoleFinanceManager, RoleCFO,
}

// Departments lists the departments used by generated fixtures
var Departments = []string{"Engineering", "HR", "Sales", "Design", "Data"}

// Genders lists accepted gender values
var Genders = []string{"Male", "Female", "Other"}

// Employee is the employee record
type Employee struct {
	bun.BaseModel `bun:"table:employees,alias:emp"`

	EmployeeID          string             `bun:"employee_id,pk" json:"employee_id"`
	FirstName           string             `bun:"first_name,notnull" json:"first_name"`
	LastName            string             `bun:"last_name,notnull" json:"last_name"`
	DateOfBirth         string             `bun:"date_of_birth,notnull" json:"date_of_birth"`
	Gender              string             `bun:"gender" json:"gender"`
	IdentificationNo    string             `bun:"identification_no" json:"identification_no"`
	IdentificationType  IdentificationType `bun:"identification_type" json:"identification_type"`
	Street              string             `bun:"street" json:"street"`
	City                string             `bun:"city" json:"city"`
	State               string             `bun:"state" json:"state"`
	Country             string             `bun:"country" json:"country"`
	CurrentWorkLocation string             `bun:"current_work_location" json:"current_work_location"`
	Role                Role               `bun:"role,notnull" json:"role"`
	Department          string             `bun:"department,notnull" json:"department"`
	Salary              float64            `bun:"salary" json:"salary"`
	SystemAssigned      bool               `bun:"system_assigned" json:"system_assigned"`
	SystemAssetID       *string            `bun:"system_asset_id" json:"system_asset_id"`
	PhoneNumber         string             `bun:"phone_number" json:"phone_number,omitempty"`
	IsActive            bool               `bun:"is_active" json:"is_active"`
	Status              Status             `bun:"status,notnull" json:"status"`
	StartDate           string             `bun:"start_date,notnull" json:"start_date"`
	EndDate             *string            `bun:"end_date" json:"end_date"`
	EmploymentType      EmploymentType     `bun:"employment_type,notnull" json:"employment_type"`
}

// EmployeeUpdate is a partial update; nil fields are left untouched
type EmployeeUpdate struct {
	FirstName           *string             `json:"first_name"`
	LastName            *string             `json:"last_name"`
	DateOfBirth         *string             `json:"date_of_birth"`
	Gender              *string             `json:"gender"`
	IdentificationNo    *string             `json:"identification_no"`
	IdentificationType  *IdentificationType `json:"identification_type"`
	Street              *string             `json:"street"`
	City                *string             `json:"city"`
	State               *string             `json:"state"`
	Country             *string             `json:"country"`
	CurrentWorkLocation *string             `json:"current_work_location"`
	Role                *Role               `json:"role"`
	Department          *string             `json:"department"`
	Salary              *float64            `json:"salary"`
	SystemAssigned      *bool               `json:"system_assigned"`
	SystemAssetID       *string             `json:"system_asset_id"`
	PhoneNumber         *string             `json:"phone_number"`
	IsActive            *bool               `json:"is_active"`
	Status              *Status             `json:"status"`
	StartDate           *string             `json:"start_date"`
	EndDate             *string             `json:"end_date"`
	EmploymentType      *EmploymentType     `json:"employment_type"`
}

// Apply merges the provided fields into e. The employee id never changes.
func (u EmployeeUpdate) Apply(e *Employee) {
	setString(&e.FirstName, u.FirstName)
	setString(&e.LastName, u.LastName)
	setString(&e.DateOfBirth, u.DateOfBirth)
	setString(&e.Gender, u.Gender)
	setString(&e.IdentificationNo, u.IdentificationNo)
	setString(&e.Street, u.Street)
	setString(&e.City, u.City)
	setString(&e.State, u.State)
	setString(&e.Country, u.Country)
	setString(&e.CurrentWorkLocation, u.CurrentWorkLocation)
	setString(&e.Department, u.Department)
	setString(&e.PhoneNumber, u.PhoneNumber)
	setString(&e.StartDate, u.StartDate)

	if u.IdentificationType != nil {
		e.IdentificationType = *u.IdentificationType
	}
	if u.Role != nil {
		e.Role = *u.Role
	}
	if u.Salary != nil {
		e.Salary = *u.Salary
	}
	if u.SystemAssigned != nil {
		e.SystemAssigned = *u.SystemAssigned
	}
	if u.SystemAssetID != nil {
		e.SystemAssetID = optional(*u.SystemAssetID)
	}
	if u.IsActive != nil {
		e.IsActive = *u.IsActive
	}
	if u.Status != nil {
		e.Status = *u.Status
	}
	if u.EndDate != nil {
		e.EndDate = optional(*u.EndDate)
	}
	if u.EmploymentType != nil {
		e.EmploymentType = *u.EmploymentType
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// optional maps the empty string to nil
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
