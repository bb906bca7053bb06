package httpapi

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-hr-auth"
	"github.com/goliatone/go-hr-auth/middleware/jwtware"
	"github.com/goliatone/go-print"
)

type AuthControllerRoutes struct {
	Login    string
	Logout   string
	Register string
	Me       string
}

type AuthController struct {
	Debug        bool
	Logger       auth.Logger
	Auth         *auth.Authenticator
	Routes       *AuthControllerRoutes
	CookieName   string
	CookieSecure bool
}

type AuthControllerOption func(*AuthController) *AuthController

func WithAuthenticator(a *auth.Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auth = a
		return c
	}
}

func WithAuthLogger(l auth.Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if l != nil {
			c.Logger = l
		}
		return c
	}
}

// WithSecureCookie marks the access token cookie Secure
func WithSecureCookie(secure bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.CookieSecure = secure
		return c
	}
}

func WithDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:     nopLogger{},
		CookieName: jwtware.DefaultCookieName,
		Routes: &AuthControllerRoutes{
			Login:    "/login",
			Logout:   "/logout",
			Register: "/register",
			Me:       "/users/me",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auth == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

// Mount registers the auth routes. protected guards register and me.
func (a *AuthController) Mount(r fiber.Router, protected fiber.Handler) {
	r.Post(a.Routes.Login, a.LoginPost).Name("login.post")
	r.Post(a.Routes.Logout, a.LogOut).Name("logout.post")
	r.Post(a.Routes.Register, protected, a.RegistrationCreate).Name("register.post")
	r.Get(a.Routes.Me, protected, a.Me).Name("users.me")
}

// LoginRequest payload, accepted as a form or as JSON
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		return badBody(err)
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(LoginRequest{Username: payload.Username, Password: "********"}))
		fmt.Println("=========================")
	}

	token, err := a.Auth.Login(c.UserContext(), payload.Username, payload.Password)
	if err != nil {
		if auth.IsUnauthorized(err) {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": detailLoginFailed,
			})
		}
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     a.CookieName,
		Value:    token.AccessToken,
		Path:     "/",
		MaxAge:   int(token.ExpiresIn),
		Expires:  token.ExpiresAt,
		Secure:   a.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(token)
}

// LogOut expires the access token cookie. Issued tokens stay valid until
// they expire.
func (a *AuthController) LogOut(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     a.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   a.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (a *AuthController) RegistrationCreate(c *fiber.Ctx) error {
	payload := new(auth.RegisterUserMessage)

	if err := c.BodyParser(payload); err != nil {
		return badBody(err)
	}

	identity, err := a.Auth.Register(c.UserContext(), *payload)
	if err != nil {
		return err
	}

	if ra, ok := jwtware.FromLocals(c); ok {
		a.Logger.Info("identity registered", "username", identity.Username, "by", ra.Identity.Username)
	}

	return c.Status(fiber.StatusCreated).JSON(identity)
}

func (a *AuthController) Me(c *fiber.Ctx) error {
	ra, ok := jwtware.FromLocals(c)
	if !ok {
		return auth.ErrMalformedToken
	}
	return c.JSON(ra.Identity)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
