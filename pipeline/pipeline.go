// Package pipeline orchestrates the full playlist-to-file download sequence.
//
// A run walks the stages resolve, download, merge, convert, and clean up. A
// failure in any stage skips the remaining forward stages; workspace cleanup
// always runs and its own failure never masks the primary error.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/hlsget-cli/hlsget/fetch"
	"github.com/hlsget-cli/hlsget/filesystem"
	"github.com/hlsget-cli/hlsget/key"
	"github.com/hlsget-cli/hlsget/log"
	"github.com/hlsget-cli/hlsget/merge"
	"github.com/hlsget-cli/hlsget/playlist"
	"github.com/hlsget-cli/hlsget/workspace"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Config carries every tunable the pipeline needs. It is captured once at
// construction; a run never consults ambient configuration.
type Config struct {
	MaxDepth    int
	Concurrency int
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
	FFmpegPath  string
	TempDir     string
	CleanupTemp bool
}

// ConfigFromGlobals snapshots the process-wide configuration into a Config.
func ConfigFromGlobals() Config {
	return Config{
		MaxDepth:    viper.GetInt(key.DownloadMaxDepth),
		Concurrency: viper.GetInt(key.DownloadConcurrency),
		Timeout:     time.Duration(viper.GetInt(key.DownloadTimeout)) * time.Second,
		MaxRetries:  viper.GetInt(key.DownloadMaxRetries),
		RetryDelay:  time.Duration(viper.GetInt(key.DownloadRetryDelayMs)) * time.Millisecond,
		FFmpegPath:  viper.GetString(key.FFmpegPath),
		TempDir:     viper.GetString(key.TempDir),
		CleanupTemp: viper.GetBool(key.TempCleanup),
	}
}

// Options are the per-run inputs.
type Options struct {
	// URL locates the playlist to download.
	URL string

	// OutputPath is the final container destination.
	OutputPath string

	// TempDir overrides the configured workspace directory for this run.
	TempDir mo.Option[string]

	// Cleanup overrides the configured workspace removal flag for this run.
	Cleanup mo.Option[bool]

	// Headers are injected into every segment request.
	Headers map[string]string

	// OnProgress receives transfer completion updates during the download stage.
	OnProgress func(done, total int)
}

// resolver and merger mirror the collaborating packages' entry points so
// tests can substitute them.
type resolver interface {
	Resolve(ctx context.Context, playlistURL string, maxDepth int) ([]string, error)
}

type merger interface {
	MergeAndConvert(ctx context.Context, segmentFiles []string, intermediatePath, outputPath string) error
}

// Pipeline runs playlist downloads with a fixed configuration.
type Pipeline struct {
	cfg       Config
	resolver  resolver
	merger    merger
	newEngine func(fetch.Options) fetch.Engine
}

// New returns a Pipeline wired to the real resolver, fetch engine, and
// ffmpeg merge pipeline.
func New(cfg Config) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		resolver: playlist.NewResolver(),
		merger:   merge.New(cfg.FFmpegPath),
		newEngine: func(opts fetch.Options) fetch.Engine {
			return fetch.New(opts)
		},
	}
}

// Report summarizes one successful download.
type Report struct {
	URL        string
	OutputPath string
	Segments   int
	Bytes      int64
	Duration   time.Duration
	FinishedAt time.Time
}

// Row flattens the report into a record for the structured storage writers.
func (r *Report) Row() map[string]any {
	return map[string]any{
		"url":              r.URL,
		"output":           r.OutputPath,
		"segments":         r.Segments,
		"bytes":            r.Bytes,
		"duration_seconds": r.Duration.Seconds(),
		"finished_at":      r.FinishedAt.Format(time.RFC3339),
	}
}

// Run executes the whole pipeline for one playlist URL. On success the final
// file exists at opts.OutputPath; on failure the returned error names the
// failing stage. The workspace is cleaned up on every path when removal is
// enabled.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Report, error) {
	ws, err := workspace.Prepare(
		opts.TempDir.OrElse(p.cfg.TempDir),
		opts.OutputPath,
		opts.Cleanup.OrElse(p.cfg.CleanupTemp),
	)
	if err != nil {
		return nil, &StageError{Stage: StagePreparing, Err: err}
	}

	report, err := p.runStages(ctx, ws, opts)

	if cleanupErr := ws.Cleanup(); cleanupErr != nil {
		// Reported separately; the primary failure always wins.
		log.Errorf("workspace cleanup: %v", cleanupErr)
		if err == nil {
			err = &StageError{Stage: StageCleaningUp, Err: cleanupErr}
		}
	}

	if err != nil {
		return nil, err
	}
	return report, nil
}

// runStages walks the forward stages, stopping at the first failure.
func (p *Pipeline) runStages(ctx context.Context, ws *workspace.Workspace, opts Options) (*Report, error) {
	started := time.Now()

	urls, err := p.resolver.Resolve(ctx, opts.URL, p.cfg.MaxDepth)
	if err != nil {
		return nil, &StageError{Stage: StageResolving, Err: err}
	}

	jobs := Plan(urls, ws.SegmentsDir)
	if len(jobs) == 0 {
		return nil, &StageError{Stage: StageResolving, Err: errors.New("playlist contains no segments")}
	}

	log.Infof("downloading %d segments", len(jobs))
	engine := p.newEngine(fetch.Options{
		Concurrency: p.cfg.Concurrency,
		Timeout:     p.cfg.Timeout,
		MaxRetries:  p.cfg.MaxRetries,
		RetryDelay:  p.cfg.RetryDelay,
		Headers:     opts.Headers,
		OnProgress:  opts.OnProgress,
	})
	if err := engine.Fetch(ctx, batch(jobs)); err != nil {
		return nil, &StageError{Stage: StageDownloading, Err: err}
	}

	bytes, err := verify(jobs)
	if err != nil {
		return nil, &StageError{Stage: StageDownloading, Err: err}
	}

	files := lo.Map(jobs, func(job SegmentJob, _ int) string {
		return job.Path
	})
	if err := p.merger.MergeAndConvert(ctx, files, ws.IntermediatePath(), opts.OutputPath); err != nil {
		stage := StageMerging
		var convertErr *merge.ConvertError
		if errors.As(err, &convertErr) {
			stage = StageConverting
		}
		return nil, &StageError{Stage: stage, Err: err}
	}

	return &Report{
		URL:        opts.URL,
		OutputPath: opts.OutputPath,
		Segments:   len(jobs),
		Bytes:      bytes,
		Duration:   time.Since(started),
		FinishedAt: time.Now(),
	}, nil
}

// verify confirms that every planned destination exists and is non-empty,
// independent of the fetch engine's own accounting. It returns the combined
// byte count of the verified files.
func verify(jobs []SegmentJob) (int64, error) {
	fs := filesystem.API()

	var missing []int
	var total int64
	for _, job := range jobs {
		info, err := fs.Stat(job.Path)
		if err != nil || info.Size() == 0 {
			missing = append(missing, job.Index)
			continue
		}
		total += info.Size()
	}

	if len(missing) > 0 {
		return 0, &IncompleteError{Missing: missing}
	}
	return total, nil
}
