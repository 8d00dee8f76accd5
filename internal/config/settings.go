package config

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/lightbox/internal/platform"
	"github.com/ytget/lightbox/internal/preload"
)

// Settings keys for Fyne preferences
const (
	KeyGalleryDir    = "gallery_directory"
	KeyPreloadCount  = "preload_count"
	KeyMaxParallel   = "max_parallel_fetches"
	KeyDeleteEnabled = "delete_enabled"
	KeyLanguage      = "app_language"
)

// Default values
const (
	DefaultPreloadCount  = 0
	DefaultMaxParallel   = preload.DefaultParallel
	DefaultDeleteEnabled = false
	DefaultLanguage      = "system"

	MaxPreloadCount = 50
)

// unset marks an int preference that was never written
const unset = -1

// Settings manages persisted viewer preferences. Getters never write: only
// values the user saved end up in preferences.
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetGalleryDirectory returns the directory browsed when no images are given
func (s *Settings) GetGalleryDirectory() string {
	if dir := s.app.Preferences().String(KeyGalleryDir); dir != "" {
		return dir
	}
	defaultDir, err := platform.GetHomePicturesDir()
	if err != nil {
		return "."
	}
	return defaultDir
}

// SetGalleryDirectory sets the gallery directory
func (s *Settings) SetGalleryDirectory(dir string) {
	s.app.Preferences().SetString(KeyGalleryDir, dir)
}

// GetPreloadCount returns the saved preload window, or fallback when the
// user never saved one. 0 means every page.
func (s *Settings) GetPreloadCount(fallback int) int {
	value := s.app.Preferences().IntWithFallback(KeyPreloadCount, unset)
	if value == unset {
		return fallback
	}
	return value
}

// SetPreloadCount sets the preload window
func (s *Settings) SetPreloadCount(count int) {
	if count < 0 {
		count = 0
	}
	if count > MaxPreloadCount {
		count = MaxPreloadCount
	}
	s.app.Preferences().SetInt(KeyPreloadCount, count)
}

// GetMaxParallelFetches returns the saved maximum number of parallel
// fetches, or fallback when the user never saved one
func (s *Settings) GetMaxParallelFetches(fallback int) int {
	value := s.app.Preferences().IntWithFallback(KeyMaxParallel, unset)
	if value <= 0 {
		return fallback
	}
	return value
}

// SetMaxParallelFetches sets the maximum number of parallel fetches
func (s *Settings) SetMaxParallelFetches(count int) {
	if count < preload.MinParallel {
		count = preload.MinParallel
	}
	if count > preload.MaxParallel {
		count = preload.MaxParallel
	}
	s.app.Preferences().SetInt(KeyMaxParallel, count)
}

// GetDeleteEnabled returns whether the delete button is shown, or fallback
// when the user never saved a choice
func (s *Settings) GetDeleteEnabled(fallback bool) bool {
	prefs := s.app.Preferences()
	// A bool preference is stored when both fallbacks agree
	if on, off := prefs.BoolWithFallback(KeyDeleteEnabled, true), prefs.BoolWithFallback(KeyDeleteEnabled, false); on == off {
		return on
	}
	return fallback
}

// SetDeleteEnabled sets whether the delete button is shown
func (s *Settings) SetDeleteEnabled(enabled bool) {
	s.app.Preferences().SetBool(KeyDeleteEnabled, enabled)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	return s.app.Preferences().StringWithFallback(KeyLanguage, DefaultLanguage)
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// Apply overlays the values the user changed in preferences onto cfg.
// Keys that were never written leave cfg as loaded.
func (s *Settings) Apply(cfg *LightboxConfig) {
	cfg.Preload = s.GetPreloadCount(cfg.Preload)
	cfg.Fetch.MaxParallel = s.GetMaxParallelFetches(cfg.Fetch.MaxParallel)
	cfg.DeleteButton.Enabled = s.GetDeleteEnabled(cfg.DeleteButton.Enabled)
}
