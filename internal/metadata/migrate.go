package metadata

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/canopydev/canopy/internal/repo"
)

// The store's persisted shape has changed over the tool's life. Schema
// shapes are tagged with a version and upgraded field-by-field on
// load, rather than assuming today's shape is the only one ever
// written.
//
//	v0: {"repos": ["git@host:user/repo.git", ...]}
//	    Raw URI strings; the root was implied by the (single-root)
//	    config of the time and is supplied by the caller.
//	v1: {"version": "v1", "repos": [<full entities>]}

// probe reads just enough to dispatch on the schema version.
type probe struct {
	Version string          `json:"version"`
	Repos   json.RawMessage `json:"repos"`
}

// load reads and, if needed, upgrades the store at path.
// The second return reports whether an upgrade happened.
func load(path, legacyRoot string, layout repo.Layout) (*Store, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("read metadata store: %w", err)
	}

	var p probe
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false, fmt.Errorf("parse metadata store: %w", err)
	}

	switch p.Version {
	case Version1:
		var repos []repo.Repo
		if len(p.Repos) > 0 {
			if err := json.Unmarshal(p.Repos, &repos); err != nil {
				return nil, false, fmt.Errorf("parse metadata store: %w", err)
			}
		}
		if repos == nil {
			repos = []repo.Repo{}
		}
		return &Store{Version: Version1, Repos: repos}, false, nil

	case "", "v0":
		s, err := upgradeV0(p.Repos, legacyRoot, layout)
		if err != nil {
			return nil, false, err
		}
		return s, true, nil

	default:
		// Downgrades are a hard break; reinterpreting a newer schema
		// silently risks destroying data on the next save.
		return nil, false, fmt.Errorf("metadata store version %q is newer than this canopy understands", p.Version)
	}
}

// upgradeV0 maps the v0 shape (bare URI strings) into v1 entities.
// Entries that no longer parse are dropped; they were never
// addressable on disk by this tool's layout rules.
func upgradeV0(rawRepos json.RawMessage, legacyRoot string, layout repo.Layout) (*Store, error) {
	var uris []string
	if len(rawRepos) > 0 {
		if err := json.Unmarshal(rawRepos, &uris); err != nil {
			return nil, fmt.Errorf("parse v0 metadata store: %w", err)
		}
	}

	s := defaultStore()
	for _, uri := range uris {
		r, err := repo.New(uri, legacyRoot, layout)
		if err != nil {
			continue
		}
		s.Repos = append(s.Repos, *r)
	}
	return s, nil
}
