// services/qrcode_service.go
package services

import (
	"errors"
	"fmt"
	"os"

	"github.com/skip2/go-qrcode"
)

// QRCodeEncoder matches qrcode.Encode so tests can inject failures.
type QRCodeEncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

// GenerateConfirmationQR creates a QR code PNG pointing at the public
// confirmation page for a submitted registration.
func GenerateConfirmationQR(reference string, size int, encode QRCodeEncoder) ([]byte, error) {
	if reference == "" {
		return nil, errors.New("missing submission reference")
	}

	applicationURL := os.Getenv("APPLICATION_URL")
	if applicationURL == "" {
		applicationURL = "http://localhost:8080" // Default for local testing
	}

	confirmURL := fmt.Sprintf("%s/confirmations/%s", applicationURL, reference)
	png, err := encode(confirmURL, qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	return png, nil
}
