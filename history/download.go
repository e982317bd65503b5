package history

import (
	"fmt"
	"time"

	"github.com/hlsget-cli/hlsget/pipeline"
	"github.com/hlsget-cli/hlsget/util"
)

// SavedDownload represents a single finished download preserved in the
// registry.
type SavedDownload struct {
	URL        string    `json:"url"`
	OutputPath string    `json:"output_path"`
	Segments   int       `json:"segments"`
	Bytes      int64     `json:"bytes"`
	FinishedAt time.Time `json:"finished_at"`
}

func (s *SavedDownload) encode() string {
	return s.URL
}

func (s *SavedDownload) String() string {
	return fmt.Sprintf("%s : %s, %d bytes", s.OutputPath, util.Quantify(s.Segments, "segment", "segments"), s.Bytes)
}

// FromReport converts a pipeline report into a history record.
func FromReport(report *pipeline.Report) *SavedDownload {
	return &SavedDownload{
		URL:        report.URL,
		OutputPath: report.OutputPath,
		Segments:   report.Segments,
		Bytes:      report.Bytes,
		FinishedAt: report.FinishedAt,
	}
}
