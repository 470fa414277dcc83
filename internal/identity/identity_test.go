package identity

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

func signToken(t *testing.T, secret []byte, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString(secret)
	require.NoError(t, err)
	return s
}

func newContext(cookies ...*http.Cookie) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec)
}

func TestResolve_TokenCookie(t *testing.T) {
	t.Parallel()

	c := newContext(&http.Cookie{Name: "accessToken", Value: signToken(t, testSecret, "user42")})

	id := Resolve(c, testSecret)
	assert.Equal(t, "user42", id.UserID)
	assert.False(t, id.Guest)
}

func TestResolve_BearerHeader(t *testing.T) {
	t.Parallel()

	c := newContext()
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(t, testSecret, "user42"))

	id := Resolve(c, testSecret)
	assert.Equal(t, "user42", id.UserID)
	assert.False(t, id.Guest)
}

func TestResolve_CartCookieFallback(t *testing.T) {
	t.Parallel()

	c := newContext(&http.Cookie{Name: "cartId", Value: "abc123"})

	id := Resolve(c, testSecret)
	assert.Equal(t, "guest_abc123", id.UserID)
	assert.True(t, id.Guest)
}

func TestResolve_BadTokenFallsBackToGuest(t *testing.T) {
	t.Parallel()

	wrongKey := signToken(t, []byte("other-secret"), "user42")
	c := newContext(
		&http.Cookie{Name: "accessToken", Value: wrongKey},
		&http.Cookie{Name: "cartId", Value: "abc123"},
	)

	id := Resolve(c, testSecret)
	assert.Equal(t, "guest_abc123", id.UserID, "a forged token must not authenticate")
	assert.True(t, id.Guest)
}

func TestResolve_MintsFreshGuest(t *testing.T) {
	t.Parallel()

	first := Resolve(newContext(), testSecret)
	second := Resolve(newContext(), testSecret)

	assert.True(t, first.Guest)
	assert.True(t, strings.HasPrefix(first.UserID, "guest_"))
	assert.NotEqual(t, first.UserID, second.UserID)
}

func TestRequireUser(t *testing.T) {
	t.Parallel()

	c := newContext(&http.Cookie{Name: "accessToken", Value: signToken(t, testSecret, "user42")})
	sub, err := RequireUser(c, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user42", sub)

	// Guest cookie alone is not authentication.
	_, err = RequireUser(newContext(&http.Cookie{Name: "cartId", Value: "abc123"}), testSecret)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestCartID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cart_user42", CartID("user42"))
	assert.Equal(t, "cart_abc123", CartID("guest_abc123"))
}

func TestGuestCookieValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc123", GuestCookieValue("guest_abc123"))
	assert.Equal(t, "", GuestCookieValue("user42"))
}
