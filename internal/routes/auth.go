package routes

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mockupi/mockupi/internal/account"
	"github.com/mockupi/mockupi/internal/session"
	"github.com/mockupi/mockupi/internal/storage"
	"github.com/mockupi/mockupi/internal/web"
)

type registerForm struct {
	Name     string `form:"name"`
	Email    string `form:"email" validate:"omitempty,email"`
	Password string `form:"password"`
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// RegisterForm renders the registration page.
func (h *Handlers) RegisterForm(c *fiber.Ctx) error {
	if h.loggedIn(c) {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}
	data := h.pageData(c, "Register")
	data["Name"] = ""
	data["Email"] = ""
	return c.Render("register", data, "layouts/main")
}

// Register creates the account and redirects to the login page.
func (h *Handlers) Register(c *fiber.Ctx) error {
	if h.loggedIn(c) {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	form, err := bindForm[registerForm](c)
	if err != nil {
		web.SetFlash(c, "error", "Please enter a valid email address.")
		return c.Redirect("/register", fiber.StatusSeeOther)
	}

	acct, err := h.accounts.Register(c.UserContext(), account.RegisterInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	})
	switch {
	case err == nil:
	case errors.Is(err, account.ErrMissingFields):
		web.SetFlash(c, "error", "All fields are required.")
		return c.Redirect("/register", fiber.StatusSeeOther)
	case errors.Is(err, storage.ErrEmailTaken):
		web.SetFlash(c, "error", "Email already registered. Please use a different email or log in.")
		return c.Redirect("/register", fiber.StatusSeeOther)
	default:
		h.logger.Error("registration failed", "error", err)
		web.SetFlash(c, "error", "Something went wrong. Please try again.")
		return c.Redirect("/register", fiber.StatusSeeOther)
	}

	// warm the QR cache so the first dashboard view is instant
	if _, err := h.qr.Render(acct.PaymentID, acct.Name); err != nil {
		h.logger.Warn("qr pre-render failed", "payment_id", acct.PaymentID, "error", err)
	}

	web.SetFlash(c, "success", "Registration successful! Please log in.")
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// LoginForm renders the login page.
func (h *Handlers) LoginForm(c *fiber.Ctx) error {
	if h.loggedIn(c) {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}
	data := h.pageData(c, "Log in")
	data["Email"] = ""
	return c.Render("login", data, "layouts/main")
}

// Login authenticates the credentials and starts a session.
func (h *Handlers) Login(c *fiber.Ctx) error {
	if h.loggedIn(c) {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	form, err := bindForm[loginForm](c)
	if err != nil {
		web.SetFlash(c, "error", "Invalid email or password. Please try again.")
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	acct, err := h.accounts.Authenticate(c.UserContext(), form.Email, form.Password)
	if err != nil {
		web.SetFlash(c, "error", "Invalid email or password. Please try again.")
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	token, err := h.sessions.Create(c.UserContext(), acct.ID)
	if err != nil {
		h.logger.Error("session create failed", "error", err)
		web.SetFlash(c, "error", "Something went wrong. Please try again.")
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.sessions.TTL()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	web.SetFlash(c, "success", "Welcome back, "+acct.Name+"!")
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

// Logout ends the session and returns to the landing page.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(session.CookieName); token != "" {
		if err := h.sessions.Destroy(c.UserContext(), token); err != nil {
			h.logger.Warn("session destroy failed", "error", err)
		}
	}
	c.ClearCookie(session.CookieName)
	web.SetFlash(c, "success", "You have been successfully logged out.")
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *Handlers) loggedIn(c *fiber.Ctx) bool {
	token := c.Cookies(session.CookieName)
	if token == "" {
		return false
	}
	_, err := h.sessions.Resolve(c.UserContext(), token)
	return err == nil
}
