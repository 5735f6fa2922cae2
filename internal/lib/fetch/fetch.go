// Package fetch keeps a remote JSON resource loaded in the background.
//
// A Resource wraps a single outbound GET. It exposes the last known data, a
// loading flag and the last error, retries failed attempts with a linear
// backoff and can refresh itself on an interval. Cancelling a request (a new
// Refetch, Close, or the caller's context) is never treated as a failure.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultMaxAttempts is the total number of attempts per Refetch.
	DefaultMaxAttempts = 3
	// DefaultBaseDelay is multiplied by the attempt number between retries.
	DefaultBaseDelay = time.Second
)

// Fetcher performs one attempt at loading the resource.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Options tunes a Resource. The zero value retries up to DefaultMaxAttempts
// times and fetches as soon as Start is called.
type Options struct {
	DisableRetry    bool
	MaxAttempts     int
	BaseDelay       time.Duration
	RefreshInterval time.Duration
	// Lazy skips the initial fetch on Start.
	Lazy bool
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = DefaultBaseDelay
	}
	return o
}

// State is a point-in-time snapshot of a Resource.
type State[T any] struct {
	Data      T
	HasData   bool
	Loading   bool
	Err       string
	UpdatedAt time.Time
}

// Resource is safe for concurrent use.
type Resource[T any] struct {
	fetch  Fetcher[T]
	opts   Options
	logger zerolog.Logger

	mu       sync.RWMutex
	state    State[T]
	retries  int
	inflight context.CancelFunc
	gen      uint64

	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// New creates a Resource. Nothing is fetched until Start or Refetch.
func New[T any](fn Fetcher[T], opts Options, logger zerolog.Logger) *Resource[T] {
	base, cancel := context.WithCancel(context.Background())
	return &Resource[T]{
		fetch:  fn,
		opts:   opts.withDefaults(),
		logger: logger,
		base:   base,
		cancel: cancel,
		sleep:  sleepCtx,
		now:    time.Now,
	}
}

// Start runs the initial fetch (unless Lazy) and the periodic refresh in the
// background. Both stop when ctx is done or Close is called.
func (r *Resource[T]) Start(ctx context.Context) {
	stop := context.AfterFunc(ctx, r.cancel)

	if !r.opts.Lazy {
		r.mu.Lock()
		r.state.Loading = true
		r.mu.Unlock()

		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.refetchLogged()
		}()
	}

	if r.opts.RefreshInterval <= 0 {
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer stop()

		ticker := time.NewTicker(r.opts.RefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-r.base.Done():
				return
			case <-ticker.C:
				r.refetchLogged()
			}
		}
	}()
}

func (r *Resource[T]) refetchLogged() {
	if err := r.Refetch(r.base); err != nil && !IsCancellation(err) {
		r.logger.Warn().Err(err).Msg("background fetch failed")
	}
}

// Refetch cancels any in-flight request and loads the resource again.
//
// After failed attempt n it waits n*BaseDelay before the next one, up to
// MaxAttempts in total. When every attempt fails the error is recorded in the
// State and returned, and the retry counter starts from zero again.
// Cancellation is returned as-is and never recorded.
func (r *Resource[T]) Refetch(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.mu.Lock()
	if r.inflight != nil {
		r.inflight()
	}
	r.gen++
	gen := r.gen
	r.inflight = cancel
	r.retries = 0
	r.state.Loading = true
	r.mu.Unlock()

	for {
		data, err := r.fetch(ctx)

		r.mu.Lock()
		if gen != r.gen {
			// A newer Refetch owns the state now.
			r.mu.Unlock()
			return context.Canceled
		}

		switch {
		case err == nil:
			r.state = State[T]{Data: data, HasData: true, UpdatedAt: r.now()}
			r.finish()
			return nil

		case ctx.Err() != nil || IsCancellation(err):
			r.state.Loading = false
			r.finish()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err

		case !r.opts.DisableRetry && r.retries < r.opts.MaxAttempts-1:
			r.retries++
			attempt := r.retries
			delay := time.Duration(attempt) * r.opts.BaseDelay
			r.mu.Unlock()

			r.logger.Debug().
				Err(err).
				Int("attempt", attempt).
				Dur("retry_in", delay).
				Msg("fetch attempt failed, retrying")

			if serr := r.sleep(ctx, delay); serr != nil {
				r.mu.Lock()
				if gen == r.gen {
					r.state.Loading = false
					r.finish()
				} else {
					r.mu.Unlock()
				}
				return serr
			}

		default:
			r.state.Err = err.Error()
			r.state.Loading = false
			r.finish()
			return err
		}
	}
}

// finish resets per-request bookkeeping and releases r.mu.
func (r *Resource[T]) finish() {
	r.retries = 0
	r.inflight = nil
	r.mu.Unlock()
}

// State returns a snapshot of the resource.
func (r *Resource[T]) State() State[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// SetData replaces the cached data without a network call and clears the
// error. It does not cancel a request that is already running.
func (r *Resource[T]) SetData(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.Data = v
	r.state.HasData = true
	r.state.Err = ""
	r.state.UpdatedAt = r.now()
}

// Close stops the refresh loop, cancels the in-flight request and waits for
// background goroutines to return.
func (r *Resource[T]) Close() {
	r.cancel()

	r.mu.Lock()
	if r.inflight != nil {
		r.inflight()
	}
	r.mu.Unlock()

	r.wg.Wait()
}

// IsCancellation reports whether err is the result of a cancelled context.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// StatusError is returned by JSON for non-2xx responses.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 1 << 10

// JSON builds a Fetcher that GETs url and decodes the JSON body into T.
// header is copied onto every request and may be nil.
func JSON[T any](client *http.Client, url string, header http.Header) Fetcher[T] {
	if client == nil {
		client = http.DefaultClient
	}

	return func(ctx context.Context) (T, error) {
		var out T

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return out, fmt.Errorf("building request: %w", err)
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return out, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			return out, &StatusError{StatusCode: resp.StatusCode, URL: url, Body: string(body)}
		}

		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return out, fmt.Errorf("decoding %s: %w", url, err)
		}
		return out, nil
	}
}
