package routes

import (
	"encoding/base64"

	"github.com/gofiber/fiber/v2"

	"github.com/mockupi/mockupi/internal/middleware"
)

// Dashboard shows the wallet balance, the payment QR code and the transfer form.
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	acct, ok := middleware.AccountFromCtx(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	wallet, err := h.transfers.Wallet(c.UserContext(), acct.ID)
	if err != nil {
		h.logger.Error("wallet lookup failed", "account_id", acct.ID, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "wallet unavailable")
	}

	data := h.pageData(c, "Dashboard")
	data["Account"] = acct
	data["Balance"] = wallet.Balance.StringFixed(2)

	// a QR failure degrades the page, it does not break it
	if png, err := h.qr.Render(acct.PaymentID, acct.Name); err != nil {
		h.logger.Warn("qr render failed", "payment_id", acct.PaymentID, "error", err)
		data["QRCode"] = ""
	} else {
		data["QRCode"] = base64.StdEncoding.EncodeToString(png)
	}

	return c.Render("dashboard", data, "layouts/main")
}
