package pipeline

import (
	"fmt"
	"path/filepath"
)

// SegmentJob pairs one segment URL with its deterministic local destination.
// Index is the playback position; the destination filename encodes it with a
// fixed-width zero-padded number so that lexical filename order equals
// playback order no matter how transfers interleave.
type SegmentJob struct {
	Index int
	URL   string
	Path  string
}

// segmentFilePattern gives five index digits, enough for any realistic
// media playlist while keeping lexical and numeric order identical.
const segmentFilePattern = "segment_%05d.ts"

// Plan maps the ordered segment URLs onto jobs with destinations inside
// segmentsDir. The returned slice is immutable by convention: the download
// and merge stages consume it read-only.
func Plan(segmentURLs []string, segmentsDir string) []SegmentJob {
	jobs := make([]SegmentJob, len(segmentURLs))
	for i, u := range segmentURLs {
		jobs[i] = SegmentJob{
			Index: i,
			URL:   u,
			Path:  filepath.Join(segmentsDir, fmt.Sprintf(segmentFilePattern, i)),
		}
	}
	return jobs
}

// batch reshapes jobs into the destination-to-source mapping consumed by the
// fetch engine.
func batch(jobs []SegmentJob) map[string]string {
	m := make(map[string]string, len(jobs))
	for _, job := range jobs {
		m[job.Path] = job.URL
	}
	return m
}
