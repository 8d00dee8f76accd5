package fetch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Fetcher defaults
const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "lightbox"
)

// Result is the outcome of a single fetch: either a decoded image or an error.
type Result struct {
	Image  image.Image
	Format string
	Err    error
}

// OK reports whether the result carries an image.
func (r Result) OK() bool {
	return r.Err == nil && r.Image != nil
}

// Completion receives the result of a fetch.
type Completion func(Result)

// HTTPDoer is the transport used for network fetches. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures an ImageFetcher
type Option func(*ImageFetcher)

// WithHTTPClient sets the transport used for network fetches
func WithHTTPClient(client HTTPDoer) Option {
	return func(f *ImageFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithTimeout sets the request timeout of the default HTTP client. It has no
// effect when WithHTTPClient is also given.
func WithTimeout(timeout time.Duration) Option {
	return func(f *ImageFetcher) {
		f.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header of network requests
func WithUserAgent(userAgent string) Option {
	return func(f *ImageFetcher) {
		f.userAgent = userAgent
	}
}

// WithMaxBytes limits the payload size; zero or less means unlimited
func WithMaxBytes(maxBytes int64) Option {
	return func(f *ImageFetcher) {
		f.maxBytes = maxBytes
	}
}

// WithLogger sets the logger used for fetch diagnostics
func WithLogger(logger zerolog.Logger) Option {
	return func(f *ImageFetcher) {
		f.logger = logger
	}
}

// ImageFetcher loads images from disk or over HTTP.
//
// A fetcher tracks one network request at a time. Starting a new network
// fetch cancels the previous one and suppresses its result; Cancel does the
// same without starting anything. Disk reads are not affected by either.
type ImageFetcher struct {
	client    HTTPDoer
	timeout   time.Duration
	userAgent string
	maxBytes  int64
	logger    zerolog.Logger

	mu         sync.Mutex
	active     bool
	generation uint64
	cancel     context.CancelFunc
}

// NewImageFetcher creates a new image fetcher
func NewImageFetcher(opts ...Option) *ImageFetcher {
	f := &ImageFetcher{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: f.timeout}
	}
	return f
}

// Fetch loads the image at locator and calls completion at most once, from
// the fetch goroutine. A cancelled or superseded fetch never calls it.
func (f *ImageFetcher) Fetch(locator string, completion Completion) {
	results := f.Load(locator)
	go func() {
		res, ok := <-results
		if ok && completion != nil {
			completion(res)
		}
	}()
}

// Load loads the image at locator. The returned channel receives at most one
// Result and is closed afterwards; it is closed without a value when the
// fetch was cancelled or superseded.
func (f *ImageFetcher) Load(locator string) <-chan Result {
	out := make(chan Result, 1)

	loc, err := ParseLocator(locator)
	if err != nil {
		out <- Result{Err: err}
		close(out)
		return out
	}

	if loc.IsFile() {
		go func() {
			defer close(out)
			out <- f.fetchFromDisk(loc)
		}()
		return out
	}

	ctx, gen := f.begin()
	go func() {
		defer close(out)
		if res, ok := f.fetchFromNetwork(ctx, gen, loc); ok {
			out <- res
		}
	}()
	return out
}

// Cancel aborts the in-flight network request and suppresses its result.
// Safe to call at any time.
func (f *ImageFetcher) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.active = false
}

// Active reports whether a network result is still eligible for delivery
func (f *ImageFetcher) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

// begin marks the fetcher active for a new network request, replacing any
// request still in flight.
func (f *ImageFetcher) begin() (context.Context, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel != nil {
		f.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	f.generation++
	f.active = true
	f.cancel = cancel
	return ctx, f.generation
}

// claim decides whether the result of request gen may be delivered and
// clears the active flag if so.
func (f *ImageFetcher) claim(gen uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.active || f.generation != gen {
		return false
	}
	defer func() {
		f.active = false
		if f.cancel != nil {
			f.cancel()
			f.cancel = nil
		}
	}()
	return true
}

func (f *ImageFetcher) fetchFromNetwork(ctx context.Context, gen uint64, loc Locator) (Result, bool) {
	started := time.Now()
	res := f.get(ctx, loc)

	if !f.claim(gen) {
		f.logger.Debug().Str("url", loc.String()).Msg("fetch suppressed")
		return Result{}, false
	}

	ev := f.logger.Debug()
	if res.Err != nil {
		ev = f.logger.Warn().Err(res.Err).Str("kind", Kind(res.Err))
	}
	ev.Str("url", loc.String()).Dur("elapsed", time.Since(started)).Msg("network fetch finished")
	return res, true
}

func (f *ImageFetcher) get(ctx context.Context, loc Locator) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc.URL().String(), nil)
	if err != nil {
		return Result{Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{Err: err}
	}
	if resp == nil || resp.Body == nil {
		return Result{Err: ErrInvalidResponse}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return Result{Err: fmt.Errorf("%w: %d", ErrInvalidStatusCode, resp.StatusCode)}
	}

	data, err := readAllLimit(resp.Body, f.maxBytes)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) && !validateLength(resp.ContentLength, len(data)) {
			return Result{Err: fmt.Errorf("%w: got %d of %d bytes", ErrInvalidContentLength, len(data), resp.ContentLength)}
		}
		return Result{Err: err}
	}

	if !validateLength(resp.ContentLength, len(data)) {
		return Result{Err: fmt.Errorf("%w: got %d of %d bytes", ErrInvalidContentLength, len(data), resp.ContentLength)}
	}

	return decodeResult(data)
}

func (f *ImageFetcher) fetchFromDisk(loc Locator) Result {
	path := loc.Path()

	info, err := os.Stat(path)
	if err != nil {
		return Result{Err: fmt.Errorf("%w: %v", ErrInvalidData, err)}
	}
	if info.IsDir() {
		return Result{Err: fmt.Errorf("%w: %s is a directory", ErrInvalidData, path)}
	}
	if f.maxBytes > 0 && info.Size() > f.maxBytes {
		return Result{Err: fmt.Errorf("%w: %w: %d bytes", ErrInvalidData, ErrTooLarge, info.Size())}
	}

	data, err := os.ReadFile(path) // #nosec G304 - caller-supplied image path
	if err != nil {
		return Result{Err: fmt.Errorf("%w: %v", ErrInvalidData, err)}
	}
	if len(data) == 0 {
		return Result{Err: fmt.Errorf("%w: %s is empty", ErrInvalidData, path)}
	}

	res := decodeResult(data)
	if res.Err != nil {
		f.logger.Warn().Err(res.Err).Str("path", path).Msg("disk fetch failed")
	}
	return res
}

func decodeResult(data []byte) Result {
	img, format, err := Decode(data)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Image: img, Format: format}
}

// validateLength accepts any payload when the declared length is unknown (-1).
func validateLength(expected int64, received int) bool {
	if expected < 0 {
		return true
	}
	return int64(received) >= expected
}

func readAllLimit(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}
	lr := &io.LimitedReader{R: r, N: maxBytes + 1}
	data, err := io.ReadAll(lr)
	if err != nil {
		return data, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, ErrTooLarge)
	}
	return data, nil
}
