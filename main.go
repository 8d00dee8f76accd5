package main

import (
	"errors"
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"
	"github.com/rs/zerolog/log"

	lbapp "github.com/ytget/lightbox/internal/app"
	"github.com/ytget/lightbox/internal/config"
	"github.com/ytget/lightbox/internal/model"
	"github.com/ytget/lightbox/internal/preload"
	"github.com/ytget/lightbox/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.lightbox"
	AppName = "Lightbox"
)

func main() {
	cli, err := lbapp.ParseViewer(os.Args[1:], version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lightbox: %v\n", err)
		os.Exit(2)
	}

	log.Logger = lbapp.NewLogger(os.Stderr, cli.Globals.Verbose)
	log.Info().Str("version", version).Msg("Lightbox starting")

	cfg, err := lbapp.LoadConfig(cli.Config)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewLightboxTheme())
	if icon, err := ui.LoadLogoResource(); err == nil {
		myApp.SetIcon(icon)
	} else {
		log.Debug().Err(err).Msg("App icon not loaded")
	}

	// Persisted preferences override the config file
	settings := config.NewSettings(myApp)
	settings.Apply(cfg)

	dir, err := lbapp.ResolveGalleryDir(cli.Dir, settings.GetGalleryDirectory())
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("Gallery directory unavailable")
	}

	gallery, err := lbapp.BuildGallery(cfg, cli.Locators, dir, cli.Start)
	if err != nil {
		if !errors.Is(err, lbapp.ErrNoImages) {
			log.Error().Err(err).Str("dir", dir).Msg("Failed to build gallery")
		}
		gallery = model.NewGallery(nil, 0)
	}
	log.Info().Int("images", gallery.Count()).Msg("Gallery ready")

	preloader := preload.NewService(cfg.Fetch.MaxParallel, cfg.FetchOptions()...)
	preloader.SetLogger(log.Logger)
	preloader.SetUpdateCallback(func(task *model.PreloadTask) {
		log.Debug().
			Str("id", task.ID).
			Str("name", task.GetDisplayName()).
			Str("locator", task.Locator).
			Str("status", string(task.Status)).
			Msg("Preload update")
	})

	window := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))

	lightbox := ui.NewLightbox(myApp, cfg, gallery, preloader, ui.NewLocalization())
	lightbox.SetLogger(log.Logger)
	lightbox.SetSettings(settings)
	lightbox.OnDelete = func(index int, removed model.LightboxImage) {
		log.Info().Int("index", index).Str("image", removed.ImageURL).Msg("Image removed from gallery")
	}
	lightbox.OnClose = myApp.Quit
	lightbox.Show(window)

	window.ShowAndRun()
	preloader.CancelAll()
}
