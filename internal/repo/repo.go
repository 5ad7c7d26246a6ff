// Package repo defines the repository entity: a parsed remote
// identity pinned to an on-disk location under a workspace root.
package repo

import (
	"path/filepath"
	"time"

	"github.com/canopydev/canopy/internal/forge"
	"github.com/canopydev/canopy/internal/giturl"
)

// Layout selects how repository directories are derived from a root.
type Layout string

const (
	// LayoutHost nests clones as <root>/<hostname>/<user>/<repo>.
	LayoutHost Layout = "host"
	// LayoutFlat is the legacy layout without per-host isolation:
	// <root>/<user>/<repo>.
	LayoutFlat Layout = "flat"
)

// Repo is a recorded git repository.
//
// Dir is always a deterministic pure function of (root, identity,
// layout): two entities with equal (hostname, user, repo, root) denote
// the same logical repository even if their raw URIs or protocols
// differ (SSH vs HTTPS addressing the same remote).
type Repo struct {
	Identity     giturl.Identity `json:"uri"`
	Dir          string          `json:"dir"`
	Root         string          `json:"root"`
	CreatedAt    time.Time       `json:"created_at"`
	LastOpenedAt time.Time       `json:"last_opened_at"`
}

// New builds a repository entity from a raw remote URI and a root.
// Fails iff the URI does not parse.
func New(rawURI, root string, layout Layout) (*Repo, error) {
	id, err := giturl.Parse(rawURI)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Repo{
		Identity:     id,
		Dir:          Dir(root, id, layout),
		Root:         root,
		CreatedAt:    now,
		LastOpenedAt: now,
	}, nil
}

// Dir derives the clone directory for an identity under a root.
func Dir(root string, id giturl.Identity, layout Layout) string {
	if layout == LayoutFlat {
		return filepath.Join(root, id.User, id.Repo)
	}
	return filepath.Join(root, id.Hostname, id.User, id.Repo)
}

// Name returns the display name <hostname>/<user>/<repo>.
func (r *Repo) Name() string {
	return r.Identity.Hostname + "/" + r.Identity.User + "/" + r.Identity.Repo
}

// SameRepo reports whether other denotes the same logical repository:
// equal hostname, user, repo and root, regardless of protocol or raw
// URI text.
func (r *Repo) SameRepo(other *Repo) bool {
	return r.Identity.Hostname == other.Identity.Hostname &&
		r.Identity.User == other.Identity.User &&
		r.Identity.Repo == other.Identity.Repo &&
		r.Root == other.Root
}

// UpdateOpenTime records that the repository was just opened.
// This is the only mutable field post-construction besides store
// membership.
func (r *Repo) UpdateOpenTime() {
	r.LastOpenedAt = time.Now()
}

// forge resolves the hosting provider for this repository's hostname.
func (r *Repo) forge(hosts map[string]string) forge.Forge {
	return forge.Detect(r.Identity.Hostname, hosts)
}

// HomeURL returns the canonical browse URL for recognized hosting
// providers. The second return is false for unrecognized hosts:
// "unsupported provider", not an error.
func (r *Repo) HomeURL(hosts map[string]string) (string, bool) {
	f := r.forge(hosts)
	if f == nil {
		return "", false
	}
	return f.HomeURL(r.Identity.User, r.Identity.Repo), true
}

// IssueURL returns the URL for an issue, or the issues index when
// number is nil. Same provider gating as HomeURL.
func (r *Repo) IssueURL(number *int, hosts map[string]string) (string, bool) {
	f := r.forge(hosts)
	if f == nil {
		return "", false
	}
	return f.IssueURL(r.Identity.User, r.Identity.Repo, number), true
}

// PullURL returns the URL for a pull request, or the pull listing
// when number is nil. Same provider gating as HomeURL.
func (r *Repo) PullURL(number *int, hosts map[string]string) (string, bool) {
	f := r.forge(hosts)
	if f == nil {
		return "", false
	}
	return f.PullURL(r.Identity.User, r.Identity.Repo, number), true
}
