package app

import (
	"errors"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/ytget/lightbox/internal/config"
	"github.com/ytget/lightbox/internal/model"
	"github.com/ytget/lightbox/internal/platform"
)

// ErrNoImages is returned when neither arguments, the manifest nor the
// directory yield an image
var ErrNoImages = errors.New("no images to show")

type ViewerCLI struct {
	Globals Globals `embed:""`

	Config string `help:"Lightbox YAML config and image manifest." short:"c" type:"existingfile"`
	Dir    string `help:"Directory to scan for images." short:"d" type:"existingdir"`
	Start  int    `help:"Zero-based page to open first." default:"0"`

	Locators []string `arg:"" optional:"" name:"locator" help:"Image paths or URLs to show, in order."`
}

// ParseViewer parses the viewer flags. Parse errors and --help exit the
// process through kong.
func ParseViewer(args []string, version string) (*ViewerCLI, error) {
	var cli ViewerCLI
	parser, err := kong.New(&cli,
		kong.Name("lightbox"),
		kong.Description("Full-screen image gallery for local files and URLs."),
		kong.Vars{"version": version},
	)
	if err != nil {
		return nil, err
	}
	if _, err := parser.Parse(args); err != nil {
		return nil, err
	}
	return &cli, nil
}

// LoadConfig reads the config at path, or returns the defaults for an empty path
func LoadConfig(path string) (*config.LightboxConfig, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// ResolveGalleryDir returns the directory to scan. The --dir flag wins and
// must already exist; otherwise the preferred directory is created if missing.
func ResolveGalleryDir(flagDir, preferredDir string) (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	if err := platform.CreateDirectoryIfNotExists(preferredDir); err != nil {
		return preferredDir, fmt.Errorf("creating gallery directory: %w", err)
	}
	return preferredDir, nil
}

// BuildGallery picks the pages to show. Locators given on the command line
// come first, then the manifest in cfg, then the images found in dir.
func BuildGallery(cfg *config.LightboxConfig, locators []string, dir string, start int) (*model.Gallery, error) {
	var images []model.LightboxImage

	switch {
	case len(locators) > 0:
		for _, locator := range locators {
			images = append(images, model.NewLightboxImage(locator, ""))
		}
	case len(cfg.Images) > 0:
		images = append(images, cfg.Images...)
	default:
		paths, err := platform.ScanImages(dir)
		if err != nil {
			return nil, fmt.Errorf("scanning gallery directory: %w", err)
		}
		for _, p := range paths {
			images = append(images, model.NewLightboxImage(p, ""))
		}
	}

	if len(images) == 0 {
		return nil, ErrNoImages
	}
	return model.NewGallery(images, start), nil
}
