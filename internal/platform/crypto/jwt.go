// Package crypto reads the claims the bookstore API puts in its session
// tokens.
//
// The panel never holds the API's signing key, so ParseUnverified does not
// check signatures or expiry. The decoded claims only decide which pages are
// rendered; every request is still authorized by the API itself.
package crypto

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"bookadmin/internal/entity"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMalformedToken = errors.New("malformed token")

// Claims is the full claim set the bookstore API signs.
type Claims struct {
	ID      entity.ID   `json:"id"`
	IsAdmin entity.Flag `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Payload is the part of a token the panel reads.
type Payload struct {
	ID      entity.ID
	IsAdmin bool
}

// ParseUnverified decodes the payload segment of tokenStr without looking at
// the header or signature. id and isAdmin are decoded independently: an id
// that is not an integer leaves ID at 0 without touching IsAdmin. Other
// claims are ignored.
func ParseUnverified(tokenStr string) (Payload, error) {
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		return Payload{}, ErrMalformedToken
	}
	raw, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return Payload{}, errors.Join(ErrMalformedToken, err)
	}
	var fields struct {
		ID      json.RawMessage `json:"id"`
		IsAdmin json.RawMessage `json:"isAdmin"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Payload{}, errors.Join(ErrMalformedToken, err)
	}

	var p Payload
	if len(fields.IsAdmin) > 0 {
		var flag entity.Flag
		if json.Unmarshal(fields.IsAdmin, &flag) == nil {
			p.IsAdmin = bool(flag)
		}
	}
	if len(fields.ID) > 0 {
		var id entity.ID
		if json.Unmarshal(fields.ID, &id) == nil {
			p.ID = id
		}
	}
	return p, nil
}

// GenerateToken signs a token shaped like the ones the bookstore API issues.
// Used by the fake API in tests and local development.
func GenerateToken(secret string, userID entity.ID, isAdmin bool, ttl time.Duration) (string, error) {
	c := Claims{
		ID:      userID,
		IsAdmin: entity.Flag(isAdmin),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString([]byte(secret))
}
