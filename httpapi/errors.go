package httpapi

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-hr-auth"
	"github.com/goliatone/go-hr-auth/employees"
	"github.com/goliatone/go-hr-auth/middleware/jwtware"
)

const (
	detailLoginFailed   = "Incorrect username or password"
	detailDuplicateUser = "Username already registered"
	detailNotFound      = "Employee not found"
	detailInternal      = "Internal server error"
)

// ErrorHandler renders errors as {"detail": ...} with a status derived from
// the error kind. Only 5xx responses are logged with the underlying error.
func ErrorHandler(logger auth.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, detail := classify(err)

		if status >= fiber.StatusInternalServerError && logger != nil {
			logger.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"error", err,
			)
		}

		if status == fiber.StatusUnauthorized {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}

		return c.Status(status).JSON(fiber.Map{"detail": detail})
	}
}

func classify(err error) (int, any) {
	var verrs validation.Errors
	var ferr *fiber.Error

	switch {
	case auth.IsUnauthorized(err):
		return fiber.StatusUnauthorized, jwtware.UnauthorizedDetail
	case errors.Is(err, auth.ErrDuplicateUser):
		return fiber.StatusConflict, detailDuplicateUser
	case errors.As(err, &verrs):
		return fiber.StatusUnprocessableEntity, verrs
	case errors.Is(err, employees.ErrEmployeeNotFound):
		return fiber.StatusNotFound, detailNotFound
	case errors.Is(err, employees.ErrInvalidTransition), errors.Is(err, employees.ErrTerminalStatus):
		return fiber.StatusConflict, err.Error()
	case errors.As(err, &ferr):
		return ferr.Code, ferr.Message
	default:
		return fiber.StatusInternalServerError, detailInternal
	}
}

func badBody(err error) error {
	return fiber.NewError(fiber.StatusUnprocessableEntity, "invalid request body: "+err.Error())
}
