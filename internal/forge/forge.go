// Package forge abstracts git hosting providers for web URL
// construction. A nil Forge means "unsupported provider"; callers
// treat that as the absence of a browse URL, never as an error.
package forge

import "fmt"

// Forge represents a git hosting service (GitHub, ...).
type Forge interface {
	// Name returns the forge name ("github").
	Name() string

	// HomeURL returns the canonical browse URL for a repository.
	HomeURL(user, repo string) string

	// IssueURL returns the URL for a single issue, or the issue
	// listing when number is nil.
	IssueURL(user, repo string, number *int) string

	// PullURL returns the URL for a single pull request, or the pull
	// request listing when number is nil.
	PullURL(user, repo string, number *int) string
}

// GitHub implements Forge for github.com and GitHub Enterprise hosts.
type GitHub struct {
	// Host is the hostname URLs are built against, e.g. "github.com".
	Host string
}

// Name returns "github".
func (g *GitHub) Name() string {
	return "github"
}

// HomeURL returns https://<host>/<user>/<repo>.
func (g *GitHub) HomeURL(user, repo string) string {
	return fmt.Sprintf("https://%s/%s/%s", g.Host, user, repo)
}

// IssueURL returns the issue URL, or the issues index when number is nil.
func (g *GitHub) IssueURL(user, repo string, number *int) string {
	if number == nil {
		return g.HomeURL(user, repo) + "/issues"
	}
	return fmt.Sprintf("%s/issues/%d", g.HomeURL(user, repo), *number)
}

// PullURL returns the pull request URL, or the pull listing when
// number is nil.
func (g *GitHub) PullURL(user, repo string, number *int) string {
	if number == nil {
		return g.HomeURL(user, repo) + "/pull"
	}
	return fmt.Sprintf("%s/pull/%d", g.HomeURL(user, repo), *number)
}
