package identity

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const guestPrefix = "guest_"

// Identity is a stable user identifier: either the subject claim of a signed
// access token, or a cookie-derived guest id good for cart ownership only.
type Identity struct {
	UserID string
	Guest  bool
}

// Resolve never fails: with no usable token and no cart cookie it mints a
// fresh guest identity.
func Resolve(c echo.Context, secret []byte) Identity {
	if sub, err := subjectFromToken(c, secret); err == nil && sub != "" {
		return Identity{UserID: sub}
	}

	if cookie, err := c.Cookie("cartId"); err == nil && cookie.Value != "" {
		return Identity{UserID: guestPrefix + cookie.Value, Guest: true}
	}

	return Identity{UserID: guestPrefix + uuid.NewString(), Guest: true}
}

// RequireUser resolves an authenticated identity or fails with 401. Guest
// identities are not accepted.
func RequireUser(c echo.Context, secret []byte) (string, error) {
	sub, err := subjectFromToken(c, secret)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return sub, nil
}

// CartID derives the cart key deterministically from the identity, so the
// same user or guest always lands on the same cart record.
func CartID(userID string) string {
	if rest, ok := strings.CutPrefix(userID, guestPrefix); ok {
		return "cart_" + rest
	}
	return "cart_" + userID
}

// GuestCookieValue returns the value the cartId cookie should carry for a
// guest identity, or "" for authenticated users.
func GuestCookieValue(userID string) string {
	rest, ok := strings.CutPrefix(userID, guestPrefix)
	if !ok {
		return ""
	}
	return rest
}

func subjectFromToken(c echo.Context, secret []byte) (string, error) {
	tokenString := ""
	if cookie, err := c.Cookie("accessToken"); err == nil {
		tokenString = cookie.Value
	}
	if tokenString == "" {
		auth := c.Request().Header.Get(echo.HeaderAuthorization)
		if rest, ok := strings.CutPrefix(auth, "Bearer "); ok {
			tokenString = rest
		}
	}
	if tokenString == "" {
		return "", fmt.Errorf("missing access token")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("invalid subject claim")
	}

	return sub, nil
}
