package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhookVerifier_Verify(t *testing.T) {
	const secret = "test-webhook-secret"
	body := []byte(`{"id":1001,"email":"buyer@example.com"}`)

	verifier := NewWebhookVerifier(secret)

	t.Run("valid signature", func(t *testing.T) {
		assert.True(t, verifier.Verify(body, signBody(secret, body)))
	})

	t.Run("empty signature", func(t *testing.T) {
		assert.False(t, verifier.Verify(body, ""))
	})

	t.Run("tampered body", func(t *testing.T) {
		sig := signBody(secret, body)
		tampered := []byte(`{"id":1002,"email":"buyer@example.com"}`)
		assert.False(t, verifier.Verify(tampered, sig))
	})

	t.Run("wrong secret", func(t *testing.T) {
		sig := signBody("other-secret", body)
		assert.False(t, verifier.Verify(body, sig))
	})

	t.Run("garbage signature", func(t *testing.T) {
		assert.False(t, verifier.Verify(body, "not-a-real-signature"))
	})
}

func TestWebhookVerifier_EmptyBody(t *testing.T) {
	const secret = "test-webhook-secret"
	verifier := NewWebhookVerifier(secret)

	// An empty body still has a well-defined signature
	assert.True(t, verifier.Verify(nil, signBody(secret, nil)))
}
