package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleUpdate = `{"update_id":10,"message":{"message_id":1,"date":1700000000,"chat":{"id":-100,"type":"supergroup"},"from":{"id":42,"is_bot":false,"first_name":"Ann"},"text":"/start"}}`

func post(t *testing.T, s *Server, body, secret string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(SecretHeader, secret)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := New(Config{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, HealthText, rec.Body.String())

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestWebhookEnqueuesUpdate(t *testing.T) {
	s := New(Config{})

	rec := post(t, s, sampleUpdate, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, s.updates, 1)
	update := <-s.Updates()
	assert.Equal(t, 10, update.UpdateID)
	require.NotNil(t, update.Message)
	assert.Equal(t, "/start", update.Message.Text)
	assert.Equal(t, int64(42), update.Message.From.ID)
}

func TestWebhookSecret(t *testing.T) {
	s := New(Config{Secret: "s3cret"})

	assert.Equal(t, http.StatusUnauthorized, post(t, s, sampleUpdate, "").Code)
	assert.Equal(t, http.StatusUnauthorized, post(t, s, sampleUpdate, "wrong").Code)
	assert.Empty(t, s.updates)

	assert.Equal(t, http.StatusOK, post(t, s, sampleUpdate, "s3cret").Code)
	assert.Len(t, s.updates, 1)
}

func TestWebhookFullBufferStillAcks(t *testing.T) {
	s := New(Config{BufferSize: 1})

	assert.Equal(t, http.StatusOK, post(t, s, sampleUpdate, "").Code)
	assert.Equal(t, http.StatusOK, post(t, s, sampleUpdate, "").Code)
	assert.Len(t, s.updates, 1)
}

func TestWebhookBadBodyIsAcknowledgedAndDropped(t *testing.T) {
	s := New(Config{})

	assert.Equal(t, http.StatusOK, post(t, s, "{not json", "").Code)
	assert.Empty(t, s.updates)

	assert.Equal(t, http.StatusOK, post(t, s, sampleUpdate, "").Code)
	assert.Len(t, s.updates, 1)
}

func TestWebhookWrongMethod(t *testing.T) {
	s := New(Config{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhook", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestShutdownClosesUpdates(t *testing.T) {
	s := New(Config{})

	require.NoError(t, s.Shutdown(context.Background()))

	_, open := <-s.Updates()
	assert.False(t, open)
}
