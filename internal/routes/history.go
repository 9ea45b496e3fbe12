package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mockupi/mockupi/internal/middleware"
	"github.com/mockupi/mockupi/internal/models"
)

// historyRow is a ledger entry projected relative to the viewing account.
type historyRow struct {
	When         string
	Direction    string
	Counterparty string
	Note         string
	Amount       string
	Outgoing     bool
}

// History lists the account's transfers, newest first.
func (h *Handlers) History(c *fiber.Ctx) error {
	acct, ok := middleware.AccountFromCtx(c)
	if !ok {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	entries, err := h.transfers.History(c.UserContext(), acct.ID)
	if err != nil {
		h.logger.Error("history lookup failed", "account_id", acct.ID, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "history unavailable")
	}

	rows := make([]historyRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, projectEntry(entry, acct))
	}

	data := h.pageData(c, "History")
	data["Entries"] = rows
	return c.Render("history", data, "layouts/main")
}

func projectEntry(entry models.LedgerEntry, viewer models.Account) historyRow {
	row := historyRow{
		When:   entry.CreatedAt.Local().Format("02 Jan 2006 15:04"),
		Note:   entry.Note,
		Amount: entry.Amount.StringFixed(2),
	}
	if entry.SenderAccountID == viewer.ID {
		row.Direction = "Sent"
		row.Counterparty = entry.ReceiverPaymentID
		row.Outgoing = true
	} else {
		row.Direction = "Received"
		row.Counterparty = entry.SenderPaymentID
	}
	return row
}
