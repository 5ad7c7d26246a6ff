// Package giturl parses git remote URLs into a structured identity.
//
// Exactly two surface syntaxes are recognized:
//
//	git@<host>:<user>/<repo>.git           (SSH shorthand)
//	http(s)://<host>/<user>/<repo>.git     (HTTPS)
//
// Anything else (missing .git suffix, extra path segments,
// unsupported scheme) is rejected outright. There is no best-effort
// extraction: a remote either matches one of these shapes or it fails.
package giturl

import (
	"fmt"
	"regexp"
)

// Protocol identifies how a remote is addressed.
type Protocol string

const (
	ProtocolSSH  Protocol = "ssh"
	ProtocolHTTP Protocol = "https"
)

// Identity is the structured form of a git remote URL.
// Hostname, User and Repo are the exact captured substrings: no case
// normalization, no percent-decoding. Raw preserves the original,
// protocol-tagged input. Immutable once constructed.
type Identity struct {
	Hostname string   `json:"hostname"`
	User     string   `json:"user"`
	Repo     string   `json:"repo"`
	Protocol Protocol `json:"protocol"`
	Raw      string   `json:"uri"`
}

var (
	sshRe  = regexp.MustCompile(`^git@(?P<host>[^:]+):(?P<user>[^/]+)/(?P<repo>[^/]+)\.git$`)
	httpRe = regexp.MustCompile(`^https?://(?P<host>[^/]+)/(?P<user>[^/]+)/(?P<repo>[^/]+)\.git$`)
)

// ParseError reports a remote URL that matches neither recognized
// syntax. The rejected input is reported verbatim.
type ParseError struct {
	URI string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid git remote URL: %q", e.URI)
}

// Parse converts a raw remote string into an Identity.
// The SSH shorthand is tried first, then the HTTPS form.
// Pure function: no I/O, no side effects.
func Parse(uri string) (Identity, error) {
	if m := sshRe.FindStringSubmatch(uri); m != nil {
		return Identity{
			Hostname: m[1],
			User:     m[2],
			Repo:     m[3],
			Protocol: ProtocolSSH,
			Raw:      uri,
		}, nil
	}

	if m := httpRe.FindStringSubmatch(uri); m != nil {
		return Identity{
			Hostname: m[1],
			User:     m[2],
			Repo:     m[3],
			Protocol: ProtocolHTTP,
			Raw:      uri,
		}, nil
	}

	return Identity{}, &ParseError{URI: uri}
}
