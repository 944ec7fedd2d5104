package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testWebhookSecret = "whsec_test_secret"

func signedWebhookRequest(t *testing.T, body []byte) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(body))
	req.Header.Set("svix-id", "msg_test_1")
	req.Header.Set("svix-timestamp", "1700000000")

	signedContent := fmt.Sprintf("%s.%s.%s", "msg_test_1", "1700000000", string(body))
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write([]byte(signedContent))
	req.Header.Set("svix-signature", "v1,"+hex.EncodeToString(mac.Sum(nil)))

	return req
}

func TestHandleClerkWebhook_InvalidSignature(t *testing.T) {
	t.Setenv("CLERK_WEBHOOK_SECRET", testWebhookSecret)

	h := NewWebhookHandler(nil)

	body := []byte(`{"type": "user.created", "data": {"id": "user_1"}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(body))
	req.Header.Set("svix-id", "msg_test_1")
	req.Header.Set("svix-timestamp", "1700000000")
	req.Header.Set("svix-signature", "v1,deadbeef")

	rr := httptest.NewRecorder()
	h.HandleClerkWebhook(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandleClerkWebhook_MissingSignatureHeaders(t *testing.T) {
	t.Setenv("CLERK_WEBHOOK_SECRET", testWebhookSecret)

	h := NewWebhookHandler(nil)

	body := []byte(`{"type": "user.created", "data": {"id": "user_1"}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(body))

	rr := httptest.NewRecorder()
	h.HandleClerkWebhook(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandleClerkWebhook_ValidSignatureUnknownEvent(t *testing.T) {
	t.Setenv("CLERK_WEBHOOK_SECRET", testWebhookSecret)

	// unknown event types are acknowledged without touching the service
	h := NewWebhookHandler(nil)

	body := []byte(`{"type": "organization.created", "data": {}}`)
	rr := httptest.NewRecorder()
	h.HandleClerkWebhook(rr, signedWebhookRequest(t, body))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success": true}`, rr.Body.String())
}

func TestHandleClerkWebhook_MalformedJSON(t *testing.T) {
	t.Setenv("CLERK_WEBHOOK_SECRET", testWebhookSecret)

	h := NewWebhookHandler(nil)

	body := []byte(`{not json`)
	rr := httptest.NewRecorder()
	h.HandleClerkWebhook(rr, signedWebhookRequest(t, body))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestVerifyClerkSignature_TamperedBody(t *testing.T) {
	t.Setenv("CLERK_WEBHOOK_SECRET", testWebhookSecret)

	req := signedWebhookRequest(t, []byte(`{"type": "user.created"}`))
	assert.False(t, verifyClerkSignature(req.Header, []byte(`{"type": "user.deleted"}`)))
}
