package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ytget/lightbox/internal/fetch"
)

// ErrFetchFailed is returned by the fetch command when any locator failed
var ErrFetchFailed = errors.New("fetch failed")

// DefaultFetchParallel is the number of locators fetched at once
const DefaultFetchParallel = 4

type ImaginaryCLI struct {
	Globals Globals `embed:""`

	Fetch FetchCmd `cmd:"" help:"Fetch and decode images, print format and size."`
}

type Globals struct {
	Verbose int              `help:"Verbose stderr logs (-vv for more)." short:"v" type:"counter"`
	Version kong.VersionFlag `help:"Show version."`
}

type FetchCmd struct {
	Timeout   time.Duration `help:"Network request timeout." default:"30s"`
	UserAgent string        `help:"User-Agent header for network requests." name:"user-agent" default:"${user_agent}"`
	MaxBytes  int64         `help:"Largest accepted image in bytes (0 = unlimited)." name:"max-bytes" default:"0"`
	Parallel  int           `help:"Locators fetched at once." short:"p" default:"${parallel}"`
	JSON      bool          `help:"Emit JSON array of results."`

	Locators []string `arg:"" name:"locator" help:"File path, file:// or http(s):// URL."`
}

func (c *FetchCmd) Run(ctx *kong.Context, cli *ImaginaryCLI, runCtx context.Context) error {
	logger := NewLogger(ctx.Stderr, cli.Globals.Verbose)
	opts := []fetch.Option{
		fetch.WithTimeout(c.Timeout),
		fetch.WithUserAgent(c.UserAgent),
		fetch.WithMaxBytes(c.MaxBytes),
		fetch.WithLogger(logger),
	}

	reports := fetchAll(runCtx, c.Locators, c.Parallel, opts...)
	if err := writeReports(ctx.Stdout, reports, c.JSON); err != nil {
		return err
	}

	failed := 0
	for _, r := range reports {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrFetchFailed, failed, len(reports))
	}
	return nil
}

// FetchReport is the outcome for one locator
type FetchReport struct {
	Locator   string `json:"locator"`
	Format    string `json:"format,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Error     string `json:"error,omitempty"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

// OK reports whether the locator decoded
func (r FetchReport) OK() bool {
	return r.Error == ""
}

// fetchAll loads every locator with its own fetcher, at most parallel at a
// time. Reports keep the order of locators.
func fetchAll(ctx context.Context, locators []string, parallel int, opts ...fetch.Option) []FetchReport {
	if parallel < 1 {
		parallel = 1
	}

	reports := make([]FetchReport, len(locators))
	slots := make(chan struct{}, parallel)
	var wg sync.WaitGroup

	for i, locator := range locators {
		i, locator := i, locator
		wg.Add(1)
		go func() {
			defer wg.Done()
			slots <- struct{}{}
			defer func() { <-slots }()
			reports[i] = fetchOne(ctx, locator, opts...)
		}()
	}

	wg.Wait()
	return reports
}

func fetchOne(ctx context.Context, locator string, opts ...fetch.Option) FetchReport {
	report := FetchReport{Locator: locator}
	start := time.Now()

	f := fetch.NewImageFetcher(opts...)
	select {
	case res, ok := <-f.Load(locator):
		switch {
		case !ok:
			report.setError(context.Canceled)
		case res.Err != nil:
			report.setError(res.Err)
		default:
			report.setImage(res.Image, res.Format)
		}
	case <-ctx.Done():
		f.Cancel()
		report.setError(ctx.Err())
	}

	report.ElapsedMS = time.Since(start).Milliseconds()
	return report
}

func (r *FetchReport) setError(err error) {
	r.Kind = fetch.Kind(err)
	r.Error = err.Error()
}

func (r *FetchReport) setImage(img image.Image, format string) {
	b := img.Bounds()
	r.Format = format
	r.Width = b.Dx()
	r.Height = b.Dy()
}

func writeReports(w io.Writer, reports []FetchReport, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	for _, r := range reports {
		if r.OK() {
			_, _ = fmt.Fprintf(w, "%s\t%s %dx%d\n", r.Locator, r.Format, r.Width, r.Height)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\terror %s: %s\n", r.Locator, r.Kind, r.Error)
	}
	return nil
}

// RunImaginary parses args and runs the selected command. Cancelling ctx
// abandons outstanding fetches. It returns the process exit code.
func RunImaginary(ctx context.Context, args []string, version string, stdout, stderr io.Writer) int {
	var cli ImaginaryCLI
	parser, err := kong.New(&cli,
		kong.Name("imaginary"),
		kong.Description("Fetch and decode images from disk or the network."),
		kong.Vars{
			"version":    version,
			"user_agent": fetch.DefaultUserAgent,
			"parallel":   strconv.Itoa(DefaultFetchParallel),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "imaginary: %v\n", err)
		return 2
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "imaginary: %v\n", err)
		return 2
	}

	if err := kctx.Run(&cli); err != nil {
		_, _ = fmt.Fprintf(stderr, "imaginary: %v\n", err)
		return 1
	}
	return 0
}
