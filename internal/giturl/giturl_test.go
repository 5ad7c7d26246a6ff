package giturl

import (
	"errors"
	"testing"
)

func TestParseSSH(t *testing.T) {
	t.Parallel()

	id, err := Parse("git@github.com:raphi011/wt.git")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if id.Hostname != "github.com" {
		t.Errorf("Hostname = %q, want github.com", id.Hostname)
	}
	if id.User != "raphi011" {
		t.Errorf("User = %q, want raphi011", id.User)
	}
	if id.Repo != "wt" {
		t.Errorf("Repo = %q, want wt", id.Repo)
	}
	if id.Protocol != ProtocolSSH {
		t.Errorf("Protocol = %q, want %q", id.Protocol, ProtocolSSH)
	}
	if id.Raw != "git@github.com:raphi011/wt.git" {
		t.Errorf("Raw = %q, want original input", id.Raw)
	}
}

func TestParseHTTPS(t *testing.T) {
	t.Parallel()

	for _, uri := range []string{
		"https://github.com/raphi011/wt.git",
		"http://github.com/raphi011/wt.git",
	} {
		id, err := Parse(uri)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", uri, err)
		}
		if id.Hostname != "github.com" || id.User != "raphi011" || id.Repo != "wt" {
			t.Errorf("Parse(%q) = %+v, wrong captures", uri, id)
		}
		if id.Protocol != ProtocolHTTP {
			t.Errorf("Parse(%q).Protocol = %q, want %q", uri, id.Protocol, ProtocolHTTP)
		}
	}
}

func TestParsePreservesCaptures(t *testing.T) {
	t.Parallel()

	// No case normalization, no decoding; captures are verbatim.
	id, err := Parse("git@GitLab.Example.COM:Some-User/My_Repo.git")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if id.Hostname != "GitLab.Example.COM" {
		t.Errorf("Hostname = %q, want verbatim capture", id.Hostname)
	}
	if id.User != "Some-User" || id.Repo != "My_Repo" {
		t.Errorf("captures = %q/%q, want verbatim", id.User, id.Repo)
	}
}

func TestParseRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		uri  string
	}{
		{"missing .git suffix", "git@github.com:user/repo"},
		{"missing .git suffix https", "https://github.com/user/repo"},
		{"extra path segment ssh", "git@github.com:org/group/repo.git"},
		{"extra path segment https", "https://gitlab.com/org/group/repo.git"},
		{"missing user", "https://github.com/repo.git"},
		{"unsupported scheme", "ssh://git@github.com/user/repo.git"},
		{"git protocol", "git://github.com/user/repo.git"},
		{"bare path", "user/repo"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.uri)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.uri)
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("error type = %T, want *ParseError", err)
			}
		})
	}
}
