package entities

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	redactedUserInfo    = "xxxxx"
	minBareSecretLength = 4
)

// uriSchemes are the schemes a base location may use to be treated as a URI.
// Anything else is read as an SCP-style "[user@]host" address.
var uriSchemes = map[string]bool{ //nolint:gochecknoglobals // read-only lookup table
	"http":  true,
	"https": true,
	"ftp":   true,
	"ssh":   true,
	"git":   true,
	"file":  true,
}

// scpPattern matches "[user@]host" with no path and no scheme.
var scpPattern = regexp.MustCompile(`^(?:[^@\s/:]+@)?[A-Za-z0-9][A-Za-z0-9.\-_]*$`)

// ErrInvalidBaseLocation is returned when a base location is neither a URI
// nor an SCP-style address.
var ErrInvalidBaseLocation = errors.New("invalid base location")

// ValidateBaseLocation checks that base is usable as a base location.
func ValidateBaseLocation(base string) error {
	if strings.TrimSpace(base) == "" {
		return fmt.Errorf("%w: base location is empty", ErrInvalidBaseLocation)
	}
	if _, ok := parseBaseURI(base); ok {
		return nil
	}
	if strings.Contains(base, "://") {
		return fmt.Errorf("%w: %q uses an unsupported scheme", ErrInvalidBaseLocation, RedactLocator(base))
	}
	if !scpPattern.MatchString(base) {
		return fmt.Errorf("%w: %q is neither a URI nor a [user@]host address", ErrInvalidBaseLocation, base)
	}
	return nil
}

// BuildRemoteLocator assembles the fetch address of repoID.
//
// For URI bases the credential, when given, is spliced in as
// "user:password@" right after "scheme://" and the path is joined with
// repoID+suffix without duplicated separators. Any other base is treated as
// an SCP-style address and produces "base:repoID+suffix"; credentials cannot
// be embedded in that form. Without a credential the userinfo of the base,
// such as the "git@" of an ssh URI, is kept.
func BuildRemoteLocator(base, repoID, suffix string, cred *Credential) string {
	u, ok := parseBaseURI(base)
	if !ok {
		return base + ":" + repoID + suffix
	}

	if cred == nil {
		return u.JoinPath(repoID + suffix).String()
	}

	u.User = nil
	joined := u.JoinPath(repoID + suffix).String()

	scheme, rest, _ := strings.Cut(joined, "://")
	return scheme + "://" + escapeComponent(cred.Username) + ":" + escapeComponent(cred.Password) + "@" + rest
}

// RedactLocator replaces the user information of a URI locator. SCP-style
// locators carry no secret and are returned unchanged.
func RedactLocator(locator string) string {
	u, err := url.Parse(locator)
	if err != nil || u.User == nil || u.Scheme == "" {
		return locator
	}
	u.User = url.User(redactedUserInfo)
	return u.String()
}

// RedactMessage removes every trace of the locator credentials from msg:
// the full locator, its user information and the raw or encoded secrets.
// A bare password shorter than minBareSecretLength is only removed where it
// appears as userinfo, so it cannot mangle ordinary words.
func RedactMessage(msg, locator string, cred *Credential) string {
	if locator != "" {
		msg = strings.ReplaceAll(msg, locator, RedactLocator(locator))
	}
	if cred == nil {
		return msg
	}

	var secrets []string
	if cred.Password != "" {
		secrets = append(secrets,
			"://"+escapeComponent(cred.Username)+":"+escapeComponent(cred.Password)+"@",
			"://"+cred.Username+":"+cred.Password+"@",
		)
		if cred.Username != "" {
			secrets = append(secrets,
				escapeComponent(cred.Username)+":"+escapeComponent(cred.Password),
				cred.Username+":"+cred.Password,
			)
		}
		if len(cred.Password) >= minBareSecretLength {
			secrets = append(secrets, escapeComponent(cred.Password), cred.Password)
		}
	}
	secrets = append(secrets, EncodeCredential(*cred))

	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		replacement := redactedUserInfo
		if strings.HasPrefix(secret, "://") {
			replacement = "://" + redactedUserInfo + "@"
		}
		msg = strings.ReplaceAll(msg, secret, replacement)
	}
	if cred.Username != "" {
		msg = strings.ReplaceAll(msg, "://"+escapeComponent(cred.Username)+"@", "://"+redactedUserInfo+"@")
	}
	return msg
}

// parseBaseURI parses base when it is a well-formed URI with a known scheme.
func parseBaseURI(base string) (*url.URL, bool) {
	if !strings.Contains(base, "://") {
		return nil, false
	}
	u, err := url.Parse(base)
	if err != nil || !uriSchemes[strings.ToLower(u.Scheme)] {
		return nil, false
	}
	if u.Host == "" && u.Scheme != "file" {
		return nil, false
	}
	return u, true
}
