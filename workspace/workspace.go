// Package workspace manages the scratch directory tree owned by a single download.
//
// A workspace is created at the start of one download, is never shared across
// concurrent downloads, and is recursively removed at the end of the download
// when cleanup is enabled, regardless of success or failure.
package workspace

import (
	"fmt"
	"path/filepath"

	"github.com/hlsget-cli/hlsget/filesystem"
	"github.com/hlsget-cli/hlsget/where"
)

// IOError reports a failed filesystem operation on the workspace tree.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("workspace %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Workspace is the scratch directory tree for one download.
type Workspace struct {
	// Root is the workspace root directory.
	Root string

	// SegmentsDir holds the downloaded segment files.
	SegmentsDir string

	// CleanupOnExit marks the root for recursive removal once the download ends.
	CleanupOnExit bool
}

// Prepare creates the workspace tree. A unique directory under the localized
// temp dir is created when requestedDir is empty; otherwise requestedDir is
// created or reused as the root. The parent directory of outputPath is
// created as well so the final file can be written without further checks.
func Prepare(requestedDir, outputPath string, cleanupOnExit bool) (*Workspace, error) {
	fs := filesystem.API()

	root := requestedDir
	if root == "" {
		dir, err := fs.TempDir(where.Temp(), "download_")
		if err != nil {
			return nil, &IOError{Op: "create", Path: where.Temp(), Err: err}
		}
		root = dir
	} else if err := fs.MkdirAll(root, 0755); err != nil {
		return nil, &IOError{Op: "create", Path: root, Err: err}
	}

	segmentsDir := filepath.Join(root, "ts_segments")
	if err := fs.MkdirAll(segmentsDir, 0755); err != nil {
		return nil, &IOError{Op: "create", Path: segmentsDir, Err: err}
	}

	if parent := filepath.Dir(outputPath); parent != "" && parent != "." {
		if err := fs.MkdirAll(parent, 0755); err != nil {
			return nil, &IOError{Op: "create", Path: parent, Err: err}
		}
	}

	return &Workspace{
		Root:          root,
		SegmentsDir:   segmentsDir,
		CleanupOnExit: cleanupOnExit,
	}, nil
}

// IntermediatePath returns the workspace-local path for the concatenated
// intermediate container.
func (w *Workspace) IntermediatePath() string {
	return filepath.Join(w.Root, "merged_video.ts")
}

// Cleanup recursively removes the workspace root when cleanup is enabled and
// the root still exists. It is safe to call on an already-removed workspace.
func (w *Workspace) Cleanup() error {
	if !w.CleanupOnExit {
		return nil
	}

	fs := filesystem.API()
	exists, err := fs.DirExists(w.Root)
	if err != nil {
		return &IOError{Op: "stat", Path: w.Root, Err: err}
	}
	if !exists {
		return nil
	}

	if err := fs.RemoveAll(w.Root); err != nil {
		return &IOError{Op: "remove", Path: w.Root, Err: err}
	}
	return nil
}
