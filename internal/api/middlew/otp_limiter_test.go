package middlew

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeekEmail_ReadsEmailAndRestoresBody(t *testing.T) {
	body := `{"email":" User@Example.COM "}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/otp/request", strings.NewReader(body))

	email := peekEmail(req)

	assert.Equal(t, "user@example.com", email)

	// тело остаётся читаемым для следующего обработчика
	rest, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, body, string(rest))
}

func TestPeekEmail_HugeBodyIsNotBuffered(t *testing.T) {
	// email лежит за пределами буферизуемого префикса
	body := strings.Repeat(" ", maxPeekBytes) + `{"email":"user@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/otp/request", strings.NewReader(body))

	email := peekEmail(req)

	assert.Equal(t, "", email)

	// тело всё равно доступно целиком
	rest, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, body, string(rest))
}

func TestPeekEmail_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/otp/request", strings.NewReader("not json"))

	assert.Equal(t, "", peekEmail(req))
}

func TestPeekEmail_NilBody(t *testing.T) {
	req := &http.Request{Body: nil}

	assert.Equal(t, "", peekEmail(req))
}
