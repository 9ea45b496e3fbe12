package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mockupi/mockupi/internal/middleware"
	"github.com/mockupi/mockupi/internal/storage"
	"github.com/mockupi/mockupi/internal/transfer"
	"github.com/mockupi/mockupi/internal/web"
)

type transferForm struct {
	RecipientPaymentID string `form:"recipient_upi_id"`
	Amount             string `form:"amount"`
	Description        string `form:"description"`
}

// Transfer moves money to another wallet and redirects back to the dashboard
// with the outcome as a flash message.
func (h *Handlers) Transfer(c *fiber.Ctx) error {
	acct, ok := middleware.AccountFromCtx(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	form, err := bindForm[transferForm](c)
	if err != nil {
		web.SetFlash(c, "error", "Recipient UPI ID and Amount are required.")
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	entry, err := h.transfers.Send(c.UserContext(), transfer.SendInput{
		Sender:            acct,
		ReceiverPaymentID: form.RecipientPaymentID,
		Amount:            form.Amount,
		Note:              form.Description,
	})
	switch {
	case err == nil:
		web.SetFlash(c, "success", "Successfully sent ₹"+entry.Amount.StringFixed(2)+" to "+entry.ReceiverPaymentID+".")
	case errors.Is(err, transfer.ErrMissingFields):
		web.SetFlash(c, "error", "Recipient UPI ID and Amount are required.")
	case errors.Is(err, transfer.ErrInvalidAmount):
		web.SetFlash(c, "error", "Invalid amount. Please enter a positive numerical value.")
	case errors.Is(err, transfer.ErrSelfTransfer):
		web.SetFlash(c, "error", "You cannot send money to yourself.")
	case errors.Is(err, transfer.ErrReceiverNotFound):
		web.SetFlash(c, "error", "Recipient UPI ID not found.")
	case errors.Is(err, storage.ErrInsufficientFunds):
		web.SetFlash(c, "error", "Insufficient balance to complete the transaction.")
	default:
		h.logger.Error("transfer failed", "sender", acct.PaymentID, "error", err)
		web.SetFlash(c, "error", "An error occurred during transfer. Please try again.")
	}

	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}
