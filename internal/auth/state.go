package auth

import (
	"errors"
	"io/fs"

	"golang.org/x/oauth2"
)

// TokenState describes a credential loaded from disk and drives the
// refresh-or-reconsent decision.
type TokenState int

const (
	// TokenAbsent means no token file exists yet.
	TokenAbsent TokenState = iota
	// TokenValid means the token can be used as-is.
	TokenValid
	// TokenExpired means the token has lapsed but carries a refresh token.
	TokenExpired
	// TokenInvalid means the token is unusable and cannot be refreshed.
	TokenInvalid
)

func (s TokenState) String() string {
	switch s {
	case TokenAbsent:
		return "absent"
	case TokenValid:
		return "valid"
	case TokenExpired:
		return "expired"
	case TokenInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Classify maps a token load result to its state. It is a pure function of
// its inputs; the caller decides what to do about the outcome.
func Classify(tok *oauth2.Token, loadErr error) TokenState {
	switch {
	case errors.Is(loadErr, fs.ErrNotExist):
		return TokenAbsent
	case loadErr != nil:
		return TokenInvalid
	case tok == nil:
		return TokenInvalid
	case tok.Valid():
		return TokenValid
	case tok.RefreshToken != "":
		return TokenExpired
	default:
		return TokenInvalid
	}
}
