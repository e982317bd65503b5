// Package janitor prunes orphaned scratch workspaces left behind by
// interrupted downloads.
package janitor

import (
	"path/filepath"
	"time"

	"github.com/hlsget-cli/hlsget/filesystem"
	"github.com/hlsget-cli/hlsget/log"
	"github.com/hlsget-cli/hlsget/where"
)

// TTL is how long a scratch directory may sit untouched before it is
// considered abandoned. Active downloads keep touching their files, so only
// leftovers from crashed or killed runs ever cross it.
const TTL = 24 * time.Hour

// Sweep launches an asynchronous prune of expired scratch directories.
func Sweep() {
	go sweep(where.Temp(), TTL)
}

func sweep(dir string, ttl time.Duration) {
	fs := filesystem.API()

	entries, err := fs.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if time.Since(entry.ModTime()) <= ttl {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := fs.RemoveAll(path); err != nil {
			log.Warnf("janitor: removing %s: %v", path, err)
		}
	}
}
