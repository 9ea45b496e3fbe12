package routes

import "github.com/gofiber/fiber/v2"

// Home renders the landing page, or sends active sessions to the dashboard.
func (h *Handlers) Home(c *fiber.Ctx) error {
	if h.loggedIn(c) {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}
	return c.Render("index", h.pageData(c, "Welcome"), "layouts/main")
}
