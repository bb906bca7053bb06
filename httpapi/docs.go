package httpapi

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
	"github.com/goliatone/go-hr-auth/middleware/jwtware"
)

//go:embed views/*.html
var viewsFS embed.FS

// NewViewEngine returns the django engine over the embedded views
func NewViewEngine() *django.Engine {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		panic(err)
	}
	return django.NewFileSystem(http.FS(sub), ".html")
}

// RouteDoc describes one route on the docs page
type RouteDoc struct {
	Method      string
	Path        string
	Protected   bool
	Description string
}

// Routes lists the public surface of the API
var Routes = []RouteDoc{
	{"POST", "/login", false, "Exchange username and password for a bearer token; also sets the access_token cookie"},
	{"POST", "/logout", false, "Clear the access_token cookie"},
	{"POST", "/register", true, "Create a login account"},
	{"GET", "/users/me", true, "Identity behind the presented token"},
	{"GET", "/employees", true, "List employees; skip and limit query parameters"},
	{"GET", "/employees/:id", true, "Fetch one employee"},
	{"POST", "/employees", true, "Create an employee; the id is assigned by the server"},
	{"PUT", "/employees/:id", true, "Update the provided fields"},
	{"DELETE", "/employees/:id", true, "Remove an employee"},
	{"PATCH", "/employees/:id/department", true, "Move an employee to another department"},
	{"POST", "/employees/:id/resign", true, "Record a resignation; end_date defaults to today"},
	{"GET", "/docs", false, "This page"},
	{"GET", "/health", false, "Liveness probe"},
	{"GET", "/metrics", false, "Prometheus metrics"},
}

// Docs renders the route reference
func Docs(title string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Render("docs", fiber.Map{
			"title":       title,
			"cookie_name": jwtware.DefaultCookieName,
			"routes":      Routes,
		})
	}
}

// Health reports liveness
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
