package qr

import (
	"net/url"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
)

const imageSize = 256

// PaymentURI builds the UPI deep link encoded into dashboard QR codes.
func PaymentURI(paymentID, name string) string {
	query := url.Values{}
	query.Set("pa", paymentID)
	query.Set("pn", name)
	query.Set("cu", "INR")
	return "upi://pay?" + query.Encode()
}

// Renderer produces PNG QR codes for payment identifiers, with an optional
// on-disk cache keyed by payment id.
type Renderer struct {
	cacheDir string
}

// NewRenderer creates a renderer. An empty cacheDir disables caching.
func NewRenderer(cacheDir string) *Renderer {
	return &Renderer{cacheDir: cacheDir}
}

// Render returns the PNG bytes for the account's payment QR code. Cache
// failures are swallowed: a miss or unwritable directory just means the code
// is regenerated on every request.
func (r *Renderer) Render(paymentID, name string) ([]byte, error) {
	path := r.cachePath(paymentID)
	if path != "" {
		if png, err := os.ReadFile(path); err == nil {
			return png, nil
		}
	}

	png, err := qrcode.Encode(PaymentURI(paymentID, name), qrcode.Medium, imageSize)
	if err != nil {
		return nil, err
	}

	if path != "" {
		_ = os.WriteFile(path, png, 0o644)
	}
	return png, nil
}

func (r *Renderer) cachePath(paymentID string) string {
	if r.cacheDir == "" {
		return ""
	}
	// payment ids only contain email-local characters and '@', but escape
	// anyway so the id can never traverse out of the cache dir
	return filepath.Join(r.cacheDir, url.PathEscape(paymentID)+".png")
}
