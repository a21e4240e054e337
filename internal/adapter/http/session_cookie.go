package adapthttp

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionCookieName = "session"

// sessionClaims wraps the opaque session token. The token is still checked
// against the store on every request; the signature only rejects forged
// or tampered cookies before that lookup.
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type sessionCookies struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func (c *sessionCookies) sign(token string, userID uuid.UUID, now time.Time) (string, error) {
	claims := sessionClaims{
		SessionID: token,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c *sessionCookies) verify(raw string) (string, uuid.UUID, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", uuid.Nil, err
	}
	if claims.SessionID == "" {
		return "", uuid.Nil, errors.New("session cookie missing sid")
	}
	sub, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", uuid.Nil, err
	}
	return claims.SessionID, sub, nil
}

// set writes the signed session cookie.
func (c *sessionCookies) set(w http.ResponseWriter, token string, userID uuid.UUID) error {
	value, err := c.sign(token, userID, time.Now())
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(c.ttl.Seconds()),
	})
	return nil
}

// read returns the session token and user id carried by the request's
// cookie. ok is false when there is no cookie or it does not verify.
func (c *sessionCookies) read(r *http.Request) (token string, userID uuid.UUID, ok bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", uuid.Nil, false
	}
	token, userID, err = c.verify(cookie.Value)
	if err != nil {
		return "", uuid.Nil, false
	}
	return token, userID, true
}

func (c *sessionCookies) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
