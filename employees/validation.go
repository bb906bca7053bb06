package employees

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used to parse numbers written without a country code
const DefaultPhoneRegion = "US"

// ErrInvalidPhone is returned for numbers libphonenumber rejects
var ErrInvalidPhone = errors.New("must be a valid phone number")

// Validate checks field formats, enum membership and date ordering
func (e Employee) Validate() error {
	err := validation.ValidateStruct(&e,
		validation.Field(&e.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&e.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&e.DateOfBirth, validation.Required, validation.Date(DateLayout)),
		validation.Field(&e.Gender, validation.In(stringValues(Genders)...)),
		validation.Field(&e.IdentificationNo, validation.Length(0, 32)),
		validation.Field(&e.IdentificationType, validation.Required, validation.In(IdentificationAadhar, IdentificationSSN)),
		validation.Field(&e.Role, validation.Required, validation.In(roleValues()...)),
		validation.Field(&e.Department, validation.Required, validation.Length(1, 100)),
		validation.Field(&e.Salary, validation.Min(0.0)),
		validation.Field(&e.SystemAssetID, validation.Length(0, 50)),
		validation.Field(&e.PhoneNumber, validation.By(validPhone)),
		validation.Field(&e.Status, validation.Required, validation.In(StatusEmployed, StatusResigned, StatusTerminated)),
		validation.Field(&e.StartDate, validation.Required, validation.Date(DateLayout)),
		validation.Field(&e.EndDate, validation.Date(DateLayout)),
		validation.Field(&e.EmploymentType, validation.Required, validation.In(EmploymentPermanent, EmploymentContractor, EmploymentIntern)),
	)
	if err != nil {
		return err
	}

	if e.EndDate != nil {
		start, _ := time.Parse(DateLayout, e.StartDate)
		end, _ := time.Parse(DateLayout, *e.EndDate)
		if end.Before(start) {
			return validation.Errors{"end_date": errors.New("must not be before start_date")}
		}
	}

	return nil
}

// NormalizePhone parses raw and formats it as E.164
func NormalizePhone(raw, region string) (string, error) {
	if region == "" {
		region = DefaultPhoneRegion
	}

	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", ErrInvalidPhone
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func validPhone(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	_, err := NormalizePhone(s, DefaultPhoneRegion)
	return err
}

func roleValues() []interface{} {
	out := make([]interface{}, len(Roles))
	for i, r := range Roles {
		out[i] = r
	}
	return out
}

func stringValues(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
