package utils // package utils provides helpers for session token creation and parsing

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// Session roles stored in the token's "role" claim. A token binds
// exactly one identity kind: a guest id or a staff id, never both.
const (
	RoleGuest = "GUEST"
	RoleStaff = "STAFF"
)

// ErrInvalidSession is returned when a session token cannot be
// parsed, fails signature verification, has expired, or carries
// malformed claims.
var ErrInvalidSession = errors.New("invalid session token")

// SessionToken is a signed HS256 JWT carried in the session
// cookie. The Token field contains the serialized JWT; Exp is its
// UTC expiration, which also bounds the cookie lifetime.
type SessionToken struct {
	Token string
	Exp   time.Time
}

// NewSessionToken builds and signs an HS256 JWT binding the given
// identity to a session. Claims: subject (sub) holds the guest or
// staff id, role distinguishes the two login realms, exp and iat
// bound the lifetime.
func NewSessionToken(secret string, id uint64, role string, ttlMin int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(id, 10),
		"role": role,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies a session JWT and extracts the bound
// identity. Only HMAC-signed tokens are accepted; any parse,
// signature or claim-shape failure is reported as
// ErrInvalidSession so callers can treat all of them as "no
// session".
func ParseSessionToken(secret, raw string) (uint64, string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, "", ErrInvalidSession
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ErrInvalidSession
	}
	role, ok := claims["role"].(string)
	if !ok || (role != RoleGuest && role != RoleStaff) {
		return 0, "", ErrInvalidSession
	}
	var id uint64
	switch sub := claims["sub"].(type) {
	case string:
		id, err = strconv.ParseUint(sub, 10, 64)
		if err != nil {
			return 0, "", ErrInvalidSession
		}
	case float64:
		id = uint64(sub)
	default:
		return 0, "", ErrInvalidSession
	}
	if id == 0 {
		return 0, "", ErrInvalidSession
	}
	return id, role, nil
}
