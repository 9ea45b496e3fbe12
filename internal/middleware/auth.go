package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mockupi/mockupi/internal/models"
	"github.com/mockupi/mockupi/internal/session"
	"github.com/mockupi/mockupi/internal/storage"
	"github.com/mockupi/mockupi/internal/web"
)

// accountKey is the fiber.Ctx Locals key holding the authenticated account.
const accountKey = "account"

// RequireSession resolves the session cookie and loads the authenticated
// account into the request context. Requests without a valid session are
// redirected to the login page.
func RequireSession(sessions *session.Manager, store storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(session.CookieName)
		if token == "" {
			web.SetFlash(c, "error", "Please log in to continue.")
			return c.Redirect("/login", fiber.StatusSeeOther)
		}

		accountID, err := sessions.Resolve(c.UserContext(), token)
		if err != nil {
			c.ClearCookie(session.CookieName)
			web.SetFlash(c, "error", "Please log in to continue.")
			return c.Redirect("/login", fiber.StatusSeeOther)
		}

		acct, err := store.AccountByID(c.UserContext(), accountID)
		if err != nil {
			// session survived the account; drop it
			_ = sessions.Destroy(c.UserContext(), token)
			c.ClearCookie(session.CookieName)
			web.SetFlash(c, "error", "User not found. Please log in again.")
			return c.Redirect("/login", fiber.StatusSeeOther)
		}

		c.Locals(accountKey, acct)
		return c.Next()
	}
}

// AccountFromCtx returns the account stored by RequireSession.
func AccountFromCtx(c *fiber.Ctx) (models.Account, bool) {
	acct, ok := c.Locals(accountKey).(models.Account)
	return acct, ok
}
