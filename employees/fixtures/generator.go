// Package fixtures generates synthetic employee records and reads and
// writes them as JSON fixture files.
package fixtures

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/goliatone/go-hr-auth/employees"
)

// DefaultCount is the number of records generated when no fixture exists
const DefaultCount = 100

// us area codes known to libphonenumber as valid geographic prefixes
var areaCodes = []string{"201", "212", "303", "312", "404", "415", "512", "617", "702", "206"}

// Generator produces employee records. The same seed and reference time
// yield the same records.
type Generator struct {
	faker *gofakeit.Faker
	now   time.Time
}

// NewGenerator returns a generator seeded with seed. A zero seed is random.
func NewGenerator(seed uint64, now time.Time) *Generator {
	if now.IsZero() {
		now = time.Now()
	}
	return &Generator{
		faker: gofakeit.New(seed),
		now:   now.UTC().Truncate(24 * time.Hour),
	}
}

// Generate returns n records numbered EMP1001 upwards
func (g *Generator) Generate(n int) []employees.Employee {
	out := make([]employees.Employee, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, g.employee(i))
	}
	return out
}

func (g *Generator) employee(seq int) employees.Employee {
	f := g.faker

	start := f.DateRange(g.now.AddDate(-5, 0, 0), g.now)
	active := f.Bool()

	e := employees.Employee{
		EmployeeID:          fmt.Sprintf("EMP%d", employees.FirstEmployeeNumber+seq),
		FirstName:           f.FirstName(),
		LastName:            f.LastName(),
		DateOfBirth:         f.DateRange(g.now.AddDate(-60, 0, 0), g.now.AddDate(-22, 0, 0)).Format(employees.DateLayout),
		Gender:              f.RandomString(employees.Genders),
		Street:              f.Street(),
		City:                f.City(),
		State:               f.StateAbr(),
		Country:             "USA",
		CurrentWorkLocation: f.City() + " Tech Park",
		Role:                employees.Roles[f.IntRange(0, len(employees.Roles)-1)],
		Department:          f.RandomString(employees.Departments),
		Salary:              float64(f.IntRange(4_000_000, 15_000_000)) / 100,
		SystemAssigned:      f.Bool(),
		PhoneNumber:         g.phone(),
		IsActive:            active,
		Status:              employees.StatusEmployed,
		StartDate:           start.Format(employees.DateLayout),
		EmploymentType:      employees.EmploymentType(f.RandomString([]string{"Permanent", "Contractor", "Intern"})),
	}

	if f.Bool() {
		e.IdentificationType = employees.IdentificationSSN
		ssn := f.SSN()
		e.IdentificationNo = ssn[0:3] + "-" + ssn[3:5] + "-" + ssn[5:9]
	} else {
		e.IdentificationType = employees.IdentificationAadhar
		e.IdentificationNo = fmt.Sprintf("%d%s", f.IntRange(2, 9), f.Numerify("###########"))
	}

	if f.Bool() {
		asset := "SYS-" + strings.ToUpper(f.Lexify("???")) + "-" + f.Numerify("####")
		e.SystemAssetID = &asset
	}

	if !active {
		end := f.DateRange(start, g.now).Format(employees.DateLayout)
		e.EndDate = &end
		e.Status = employees.Status(f.RandomString([]string{
			string(employees.StatusResigned),
			string(employees.StatusTerminated),
		}))
	}

	return e
}

func (g *Generator) phone() string {
	f := g.faker
	raw := fmt.Sprintf("(%s) %d%s-%s",
		f.RandomString(areaCodes),
		f.IntRange(2, 9),
		f.Numerify("##"),
		f.Numerify("####"),
	)

	normalized, err := employees.NormalizePhone(raw, employees.DefaultPhoneRegion)
	if err != nil {
		return ""
	}
	return normalized
}
