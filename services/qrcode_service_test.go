// services/qrcode_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConfirmationQR_EncodesConfirmationURL(t *testing.T) {
	t.Setenv("APPLICATION_URL", "https://entries.example.com")

	var gotContent string
	encode := func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error) {
		gotContent = content
		assert.Equal(t, qrcode.Medium, level)
		assert.Equal(t, 256, size)
		return []byte("png-bytes"), nil
	}

	png, err := GenerateConfirmationQR("REG-42", 256, encode)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), png)
	assert.Equal(t, "https://entries.example.com/confirmations/REG-42", gotContent)
}

func TestGenerateConfirmationQR_DefaultsApplicationURL(t *testing.T) {
	t.Setenv("APPLICATION_URL", "")

	encode := func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error) {
		assert.Equal(t, "http://localhost:8080/confirmations/REG-42", content)
		return []byte("png"), nil
	}

	_, err := GenerateConfirmationQR("REG-42", 128, encode)
	assert.NoError(t, err)
}

func TestGenerateConfirmationQR_MissingReference(t *testing.T) {
	_, err := GenerateConfirmationQR("", 256, qrcode.Encode)
	assert.Error(t, err)
}

func TestGenerateConfirmationQR_EncoderFailure(t *testing.T) {
	encode := func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error) {
		return nil, errors.New("encode blew up")
	}

	png, err := GenerateConfirmationQR("REG-42", 256, encode)
	assert.Nil(t, png)
	assert.EqualError(t, err, "encode blew up")
}
