package httpapi

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-hr-auth"
	"github.com/goliatone/go-hr-auth/employees"
)

// EmployeeController serves the employee resource
type EmployeeController struct {
	Service *employees.Service
	Logger  auth.Logger
	Prefix  string
}

// NewEmployeeController returns a controller mounted under /employees
func NewEmployeeController(service *employees.Service, logger auth.Logger) *EmployeeController {
	if logger == nil {
		logger = nopLogger{}
	}
	return &EmployeeController{
		Service: service,
		Logger:  logger,
		Prefix:  "/employees",
	}
}

// Mount registers every employee route behind protected
func (e *EmployeeController) Mount(r fiber.Router, protected fiber.Handler) {
	g := r.Group(e.Prefix, protected)

	g.Get("/", e.List).Name("employees.list")
	g.Post("/", e.Create).Name("employees.create")
	g.Get("/:id", e.Get).Name("employees.get")
	g.Put("/:id", e.Update).Name("employees.update")
	g.Delete("/:id", e.Delete).Name("employees.delete")
	g.Patch("/:id/department", e.ChangeDepartment).Name("employees.department")
	g.Post("/:id/resign", e.Resign).Name("employees.resign")
}

func (e *EmployeeController) List(c *fiber.Ctx) error {
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", employees.DefaultPageSize)

	records, err := e.Service.List(c.UserContext(), skip, limit)
	if err != nil {
		return err
	}

	if records == nil {
		records = []employees.Employee{}
	}

	return c.JSON(records)
}

func (e *EmployeeController) Get(c *fiber.Ctx) error {
	record, err := e.Service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(record)
}

func (e *EmployeeController) Create(c *fiber.Ctx) error {
	payload := new(employees.Employee)
	if err := c.BodyParser(payload); err != nil {
		return badBody(err)
	}

	record, err := e.Service.Create(c.UserContext(), *payload)
	if err != nil {
		return err
	}

	e.Logger.Info("employee created", "employee_id", record.EmployeeID)
	return c.Status(fiber.StatusCreated).JSON(record)
}

func (e *EmployeeController) Update(c *fiber.Ctx) error {
	patch := new(employees.EmployeeUpdate)
	if err := c.BodyParser(patch); err != nil {
		return badBody(err)
	}

	record, err := e.Service.Update(c.UserContext(), c.Params("id"), *patch)
	if err != nil {
		return err
	}
	return c.JSON(record)
}

func (e *EmployeeController) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := e.Service.Delete(c.UserContext(), id); err != nil {
		return err
	}

	e.Logger.Info("employee deleted", "employee_id", id)
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Employee %s deleted successfully", id),
	})
}

type departmentRequest struct {
	Department string `json:"department" form:"department"`
}

func (e *EmployeeController) ChangeDepartment(c *fiber.Ctx) error {
	payload := new(departmentRequest)
	if err := c.BodyParser(payload); err != nil {
		return badBody(err)
	}

	record, err := e.Service.ChangeDepartment(c.UserContext(), c.Params("id"), payload.Department)
	if err != nil {
		return err
	}
	return c.JSON(record)
}

type resignRequest struct {
	EndDate string `json:"end_date" form:"end_date"`
}

func (e *EmployeeController) Resign(c *fiber.Ctx) error {
	payload := new(resignRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(payload); err != nil {
			return badBody(err)
		}
	}

	record, err := e.Service.Resign(c.UserContext(), c.Params("id"), payload.EndDate)
	if err != nil {
		return err
	}

	e.Logger.Info("employee resigned", "employee_id", record.EmployeeID)
	return c.JSON(record)
}
