package notification

import (
	"context"
	"log/slog"
)

const (
	// KindTransferSent indicates money left the account.
	KindTransferSent = "transfer_sent"
	// KindTransferReceived indicates money arrived in the account.
	KindTransferReceived = "transfer_received"
)

// Message describes a notification payload.
type Message struct {
	Kind        string
	Destination string
	Body        string
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// TransferSent builds the debit-side message for a completed transfer.
func TransferSent(senderPaymentID, receiverPaymentID, amount string) Message {
	return Message{
		Kind:        KindTransferSent,
		Destination: senderPaymentID,
		Body:        "Sent ₹" + amount + " to " + receiverPaymentID,
	}
}

// TransferReceived builds the credit-side message for a completed transfer.
func TransferReceived(senderPaymentID, receiverPaymentID, amount string) Message {
	return Message{
		Kind:        KindTransferReceived,
		Destination: receiverPaymentID,
		Body:        "Received ₹" + amount + " from " + senderPaymentID,
	}
}

// LoggerNotifier is a stub implementation that writes notifications to the logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification", "kind", message.Kind, "destination", message.Destination, "body", message.Body)
	return nil
}
