// Package merge assembles downloaded segment files into the final output container.
//
// Assembly is a two-phase external-process pipeline: ffmpeg first
// concatenates the ordered segments into an intermediate container via
// stream copy, then remuxes that container into the final format with its
// structural metadata relocated for progressive playback. Nothing is
// re-encoded in either phase.
package merge

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hlsget-cli/hlsget/filesystem"
	"github.com/hlsget-cli/hlsget/log"
	"github.com/hlsget-cli/hlsget/util"
)

// MergeError reports a failed concatenation phase.
type MergeError struct {
	Err error
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("concatenate segments: %v", e.Err)
}

func (e *MergeError) Unwrap() error { return e.Err }

// ConvertError reports a failed remux phase.
type ConvertError struct {
	Err error
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("remux to output container: %v", e.Err)
}

func (e *ConvertError) Unwrap() error { return e.Err }

// Pipeline invokes the external merge and remux steps.
type Pipeline struct {
	Runner     Runner
	FFmpegPath string
}

// New returns a Pipeline invoking the given ffmpeg binary through os/exec.
func New(ffmpegPath string) *Pipeline {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Pipeline{Runner: ExecRunner{}, FFmpegPath: ffmpegPath}
}

// MergeAndConvert concatenates the ordered segment files into
// intermediatePath and remuxes the result to outputPath. The concat manifest
// is written next to the intermediate container and removed on every exit
// path. On remux failure no partial file is left at outputPath.
func (p *Pipeline) MergeAndConvert(ctx context.Context, segmentFiles []string, intermediatePath, outputPath string) error {
	manifest := intermediatePath + ".txt"
	if err := writeManifest(manifest, segmentFiles); err != nil {
		return &MergeError{Err: err}
	}
	defer util.Ignore(func() error {
		return filesystem.API().Remove(manifest)
	})

	log.Infof("concatenating %s", util.Quantify(len(segmentFiles), "segment", "segments"))
	err := p.Runner.Run(ctx, p.FFmpegPath,
		"-y", "-f", "concat", "-safe", "0", "-i", manifest, "-c", "copy", intermediatePath)
	if err != nil {
		return &MergeError{Err: err}
	}

	log.Infof("remuxing to %s", outputPath)
	err = p.Runner.Run(ctx, p.FFmpegPath,
		"-y", "-i", intermediatePath, "-c", "copy", "-movflags", "faststart", outputPath)
	if err != nil {
		if exists, _ := filesystem.API().Exists(outputPath); exists {
			_ = filesystem.API().Remove(outputPath)
		}
		return &ConvertError{Err: err}
	}

	return nil
}

// writeManifest lists every segment's absolute path in order, one
// single-quoted entry per line, in the ffconcat demuxer format.
func writeManifest(path string, segmentFiles []string) error {
	var b strings.Builder
	for _, file := range segmentFiles {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "file '%s'\n", abs)
	}
	return filesystem.API().WriteFile(path, []byte(b.String()), 0644)
}
