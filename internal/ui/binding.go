package ui

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/rs/zerolog"

	"github.com/ytget/lightbox/internal/fetch"
)

// ImageBinding ties a canvas.Image to at most one outstanding fetch.
//
// Every SetImage call cancels the fetch it replaces. Results are applied on
// the Fyne main goroutine and only while their fetcher is still the owned one,
// so a late disk read can never overwrite a newer page.
type ImageBinding struct {
	view      *canvas.Image
	opts      []fetch.Option
	logger    zerolog.Logger
	runOnMain func(func())

	mu      sync.Mutex
	fetcher fetch.Fetcher
}

// NewImageBinding binds view; opts are applied to every fetcher it creates
func NewImageBinding(view *canvas.Image, opts ...fetch.Option) *ImageBinding {
	return &ImageBinding{
		view:      view,
		opts:      opts,
		logger:    zerolog.Nop(),
		runOnMain: fyne.Do,
	}
}

// SetLogger sets the logger for binding diagnostics
func (b *ImageBinding) SetLogger(logger zerolog.Logger) {
	b.logger = logger
}

// View returns the bound image view
func (b *ImageBinding) View() *canvas.Image {
	return b.view
}

// SetImage replaces the shown image with the one at locator. On failure the
// view keeps its current image. completion, if set, runs on the main
// goroutine with the new image or nil.
func (b *ImageBinding) SetImage(locator string, completion func(image.Image)) {
	var f fetch.Fetcher = fetch.NewImageFetcher(append([]fetch.Option{fetch.WithLogger(b.logger)}, b.opts...)...)

	b.mu.Lock()
	if b.fetcher != nil {
		b.fetcher.Cancel()
	}
	b.fetcher = f
	b.mu.Unlock()

	f.Fetch(locator, func(res fetch.Result) {
		b.runOnMain(func() {
			b.apply(f, locator, res, completion)
		})
	})
}

// SetImageURI is SetImage for a Fyne storage URI
func (b *ImageBinding) SetImageURI(uri fyne.URI, completion func(image.Image)) {
	b.SetImage(uri.String(), completion)
}

// ShowImage cancels any outstanding fetch and shows img directly
func (b *ImageBinding) ShowImage(img image.Image) {
	b.CancelImageFetch()
	b.view.Image = img
	b.view.Refresh()
}

// CancelImageFetch cancels and releases the owned fetcher. Safe to call at
// any time.
func (b *ImageBinding) CancelImageFetch() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.fetcher != nil {
		b.fetcher.Cancel()
		b.fetcher = nil
	}
}

// Loading reports whether a fetch is outstanding
func (b *ImageBinding) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fetcher != nil
}

func (b *ImageBinding) apply(f fetch.Fetcher, locator string, res fetch.Result, completion func(image.Image)) {
	b.mu.Lock()
	if b.fetcher != f {
		b.mu.Unlock()
		b.logger.Debug().Str("locator", locator).Msg("stale image result dropped")
		return
	}
	b.fetcher = nil
	b.mu.Unlock()

	var img image.Image
	if res.OK() {
		img = res.Image
		b.view.Image = img
		b.view.Refresh()
	} else {
		b.logger.Warn().Err(res.Err).Str("locator", locator).Str("kind", fetch.Kind(res.Err)).Msg("image not loaded")
	}

	if completion != nil {
		completion(img)
	}
}
