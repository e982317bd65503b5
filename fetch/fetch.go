// Package fetch implements the bulk segment transfer engine.
//
// The engine accepts a destination-path to source-URL batch and transfers
// every entry with bounded concurrency, per-request timeouts, and retries.
// A nil error from Fetch guarantees that every listed destination file was
// written.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hlsget-cli/hlsget/filesystem"
	"github.com/hlsget-cli/hlsget/log"
	"github.com/hlsget-cli/hlsget/network"
)

// Engine transfers a batch of files. Implementations own all concurrency,
// retry, and timeout behavior for the individual transfers.
type Engine interface {
	// Fetch downloads every source URL in the batch to its destination path.
	// The batch maps destination path to source URL.
	Fetch(ctx context.Context, batch map[string]string) error
}

// Options parameterize an HTTPEngine.
type Options struct {
	// Concurrency caps the number of in-flight transfers. Defaults to 8.
	Concurrency int

	// Timeout bounds each individual request. Defaults to 30 seconds.
	Timeout time.Duration

	// MaxRetries is the number of additional attempts per entry after the
	// first failure. Defaults to 3.
	MaxRetries int

	// RetryDelay is the pause between attempts. Defaults to 500ms.
	RetryDelay time.Duration

	// Headers are injected into every request.
	Headers map[string]string

	// OnProgress, when set, is invoked after each completed transfer with
	// the running completion count and the batch total.
	OnProgress func(done, total int)
}

// HTTPEngine is the HTTP implementation of Engine.
type HTTPEngine struct {
	client *http.Client
	opts   Options
}

// New returns an HTTPEngine with unset options replaced by their defaults.
func New(opts Options) *HTTPEngine {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 500 * time.Millisecond
	}

	return &HTTPEngine{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: network.NewHeaderTransport(opts.Headers),
		},
		opts: opts,
	}
}

// Fetch transfers the whole batch and blocks until every entry has either
// been written or exhausted its retries. Partial destination files from
// failed transfers are removed.
func (e *HTTPEngine) Fetch(ctx context.Context, batch map[string]string) error {
	total := len(batch)
	if total == 0 {
		return nil
	}

	var (
		wg   sync.WaitGroup
		sem  = make(chan struct{}, e.opts.Concurrency)
		done atomic.Int64
		mu   sync.Mutex
		errs []error
	)

	for dest, src := range batch {
		wg.Add(1)
		go func(dest, src string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := e.downloadWithRetries(ctx, dest, src); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("download %s: %w", src, err))
				mu.Unlock()
				return
			}

			if e.opts.OnProgress != nil {
				e.opts.OnProgress(int(done.Add(1)), total)
			}
		}(dest, src)
	}
	wg.Wait()

	if len(errs) > 0 {
		log.Errorf("%d of %d segment transfers failed", len(errs), total)
		return errors.Join(errs...)
	}
	return nil
}

// downloadWithRetries attempts a single transfer up to 1+MaxRetries times.
func (e *HTTPEngine) downloadWithRetries(ctx context.Context, dest, src string) error {
	var err error
	for attempt := 0; attempt <= e.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			log.Warnf("retrying %s (attempt %d/%d): %v", src, attempt, e.opts.MaxRetries, err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(e.opts.RetryDelay):
			}
		}

		if err = e.download(ctx, dest, src); err == nil {
			return nil
		}
	}
	return err
}

// download performs one transfer attempt, removing the destination on failure.
func (e *HTTPEngine) download(ctx context.Context, dest, src string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	fs := filesystem.API()
	out, err := fs.Create(dest)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = fs.Remove(dest)
		return err
	}

	return out.Close()
}
