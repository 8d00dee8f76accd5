package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// RoundTripFunc adapts a function to http.RoundTripper.
type RoundTripFunc func(req *http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// ImageTransport serves ImageData for every request whose path ends in an
// image extension and 404 for everything else.
type ImageTransport struct {
	ImageData []byte

	mu       sync.Mutex
	requests []*http.Request
}

func (t *ImageTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.Lock()
	t.requests = append(t.requests, req)
	t.mu.Unlock()

	switch {
	case strings.HasSuffix(req.URL.Path, ".png"):
		return Response(http.StatusOK, t.ImageData, int64(len(t.ImageData))), nil
	default:
		return Response(http.StatusNotFound, []byte("not found"), -1), nil
	}
}

// Requests returns the requests seen so far
func (t *ImageTransport) Requests() []*http.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*http.Request, len(t.requests))
	copy(out, t.requests)
	return out
}

// BlockingTransport holds every request until Release is closed. Started
// receives the request once the transport has it.
type BlockingTransport struct {
	Body    []byte
	Started chan *http.Request
	Release chan struct{}
}

// NewBlockingTransport creates a blocking transport answering with body
func NewBlockingTransport(body []byte) *BlockingTransport {
	return &BlockingTransport{
		Body:    body,
		Started: make(chan *http.Request, 8),
		Release: make(chan struct{}),
	}
}

func (t *BlockingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.Started <- req
	<-t.Release
	return Response(http.StatusOK, t.Body, int64(len(t.Body))), nil
}

// Response builds an HTTP response with the given declared content length
func Response(status int, body []byte, contentLength int64) *http.Response {
	return &http.Response{
		StatusCode:    status,
		Header:        http.Header{"Content-Type": []string{"image/png"}},
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: contentLength,
	}
}

// Client wraps a RoundTripper in an http.Client
func Client(rt http.RoundTripper) *http.Client {
	return &http.Client{Transport: rt}
}

// MakeTestImage draws a small image with a distinct pixel pattern
func MakeTestImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 40), B: 200, A: 255})
		}
	}
	return img
}

// MakeTestPNG encodes MakeTestImage as PNG
func MakeTestPNG(width, height int) []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, MakeTestImage(width, height))
	return buf.Bytes()
}

// WriteFile writes data into a file under a fresh temp dir and returns its path
func WriteFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// SamePixels compares two images pixel by pixel in NRGBA space
func SamePixels(a, b image.Image) bool {
	if a.Bounds().Size() != b.Bounds().Size() {
		return false
	}
	ab, bb := a.Bounds(), b.Bounds()
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			ca := color.NRGBAModel.Convert(a.At(ab.Min.X+x, ab.Min.Y+y))
			cb := color.NRGBAModel.Convert(b.At(bb.Min.X+x, bb.Min.Y+y))
			if ca != cb {
				return false
			}
		}
	}
	return true
}
