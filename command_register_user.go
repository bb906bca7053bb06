package auth

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// RegisterUserMessage carries the fields needed to create an identity
type RegisterUserMessage struct {
	Username    string `form:"username" json:"username"`
	Password    string `form:"password" json:"password"`
	DisplayName string `form:"display_name" json:"display_name"`
	Email       string `form:"email" json:"email"`
}

// Validate will run validation rules. Passwords are capped at 72 bytes,
// the most bcrypt will take.
func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(
			&e.Username,
			validation.Required,
			validation.Length(2, 64),
			validation.Match(usernamePattern),
		),
		validation.Field(&e.Password, validation.Required, validation.By(maxBytes(72))),
		validation.Field(&e.DisplayName, validation.Length(0, 200)),
		validation.Field(&e.Email, validation.Length(0, 100), is.Email),
	)
}

func maxBytes(n int) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if len(s) > n {
			return errors.New("is too long")
		}
		return nil
	}
}
