package pipeline

import "fmt"

// Stage identifies one step of the download pipeline.
type Stage string

const (
	StagePreparing   Stage = "prepare workspace"
	StageResolving   Stage = "resolve playlist"
	StageDownloading Stage = "download segments"
	StageMerging     Stage = "merge segments"
	StageConverting  Stage = "convert output"
	StageCleaningUp  Stage = "clean up workspace"
)

// StageError wraps a failure with the pipeline stage it occurred in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// IncompleteError reports destination files that were absent or empty after
// the fetch engine claimed completion, identified by playback index.
type IncompleteError struct {
	Missing []int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("download incomplete: missing segments %v", e.Missing)
}
