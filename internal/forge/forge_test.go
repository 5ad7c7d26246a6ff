package forge

import "testing"

func intPtr(n int) *int { return &n }

func TestGitHubURLs(t *testing.T) {
	t.Parallel()

	gh := &GitHub{Host: "github.com"}

	if got := gh.HomeURL("u", "r"); got != "https://github.com/u/r" {
		t.Errorf("HomeURL = %q", got)
	}
	if got := gh.IssueURL("u", "r", intPtr(42)); got != "https://github.com/u/r/issues/42" {
		t.Errorf("IssueURL(42) = %q", got)
	}
	if got := gh.IssueURL("u", "r", nil); got != "https://github.com/u/r/issues" {
		t.Errorf("IssueURL(nil) = %q, want listing URL", got)
	}
	if got := gh.PullURL("u", "r", intPtr(7)); got != "https://github.com/u/r/pull/7" {
		t.Errorf("PullURL(7) = %q", got)
	}
	if got := gh.PullURL("u", "r", nil); got != "https://github.com/u/r/pull" {
		t.Errorf("PullURL(nil) = %q, want listing URL", got)
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	t.Run("github.com", func(t *testing.T) {
		t.Parallel()
		f := Detect("github.com", nil)
		if f == nil {
			t.Fatal("Detect(github.com) = nil, want GitHub")
		}
		if f.Name() != "github" {
			t.Errorf("Name = %q, want github", f.Name())
		}
	})

	t.Run("unrecognized host", func(t *testing.T) {
		t.Parallel()
		if f := Detect("git.example.org", nil); f != nil {
			t.Errorf("Detect(git.example.org) = %v, want nil", f)
		}
	})

	t.Run("hosts map override", func(t *testing.T) {
		t.Parallel()
		hosts := map[string]string{"github.mycompany.com": "github"}
		f := Detect("github.mycompany.com", hosts)
		if f == nil {
			t.Fatal("Detect with hosts map = nil, want GitHub")
		}
		if got := f.HomeURL("u", "r"); got != "https://github.mycompany.com/u/r" {
			t.Errorf("HomeURL = %q, want enterprise host", got)
		}
	})

	t.Run("hosts map with unknown forge type", func(t *testing.T) {
		t.Parallel()
		hosts := map[string]string{"git.example.org": "bitkeeper"}
		if f := Detect("git.example.org", hosts); f != nil {
			t.Errorf("Detect with unknown forge type = %v, want nil", f)
		}
	})
}
