package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT session token with convenience accessors.
//
// It embeds [jwt.Token] for low-level operations (signing, parsing)
// and [jwt.RegisteredClaims] for standard claim access.
//
// PersonID is a cached copy of the "sub" claim: the id of the person
// the session belongs to. Role and username are deliberately not part of
// the claims; they are re-read from the directory on every request so a
// demotion takes effect immediately.
type Token struct {
	// Token is the underlying JWT token. Only the compact string form is
	// meaningful outside the server process.
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// PersonID is the owner identifier extracted from the "sub" claim.
	PersonID string `json:"-"`
}

// GetPersonID extracts the person identifier from the "sub" claim.
func (t *Token) GetPersonID() (string, error) {
	personID, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting PersonID from token: %w", err)
	}
	if personID == "" {
		return "", fmt.Errorf("error extracting PersonID from token: empty subject")
	}

	return personID, nil
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}
