package entities

import (
	"encoding/base64"
	"net/url"
	"strings"
)

// Credential is a username/password pair used to reach a remote repository.
type Credential struct {
	Username string
	Password string
}

// EncodeCredential turns a credential into an opaque, config-safe token.
// Both fields are percent-encoded before being joined with ":" so that any
// byte, ":" included, survives the round trip.
func EncodeCredential(cred Credential) string {
	joined := escapeComponent(cred.Username) + ":" + escapeComponent(cred.Password)
	return base64.StdEncoding.EncodeToString([]byte(joined))
}

// DecodeCredential reverses EncodeCredential. Empty or malformed tokens
// decode to nil, meaning no credential is configured.
func DecodeCredential(token string) *Credential {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil
	}

	user, pass, ok := strings.Cut(string(raw), ":")
	if !ok {
		return nil
	}

	username, err := url.PathUnescape(user)
	if err != nil {
		return nil
	}
	password, err := url.PathUnescape(pass)
	if err != nil {
		return nil
	}

	return &Credential{Username: username, Password: password}
}

// escapeComponent percent-encodes s the way encodeURIComponent does for the
// characters that matter here: spaces become %20 instead of "+".
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
