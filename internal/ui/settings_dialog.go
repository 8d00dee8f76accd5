package ui

import (
	"sort"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/lightbox/internal/config"
	"github.com/ytget/lightbox/internal/preload"
)

// SettingsDialog represents the viewer preferences dialog
type SettingsDialog struct {
	settings     *config.Settings
	cfg          *config.LightboxConfig
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	galleryDirEntry  *widget.Entry
	preloadEntry     *widget.Entry
	maxParallelEntry *widget.Entry
	deleteCheck      *widget.Check
	languageSelect   *widget.Select
}

// NewSettingsDialog creates a new settings dialog. Values the user never
// saved are shown from cfg. onSaved runs after the values were written to
// preferences.
func NewSettingsDialog(settings *config.Settings, cfg *config.LightboxConfig, localization *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	if cfg == nil {
		cfg = config.Default()
	}
	sd := &SettingsDialog{
		settings:     settings,
		cfg:          cfg,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	text := sd.localization.GetText

	sd.galleryDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(text(KeyBrowse), sd.onBrowseDirectory)
	galleryDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.galleryDirEntry)

	sd.preloadEntry = widget.NewEntry()
	sd.preloadEntry.SetPlaceHolder("0-" + strconv.Itoa(config.MaxPreloadCount))

	sd.maxParallelEntry = widget.NewEntry()
	sd.maxParallelEntry.SetPlaceHolder(strconv.Itoa(preload.MinParallel) + "-" + strconv.Itoa(preload.MaxParallel))

	sd.deleteCheck = widget.NewCheck(text(KeyShowDelete), nil)

	languageLabels := sd.settings.GetLanguageOptions()
	languageOptions := make([]string, 0, len(languageLabels))
	for code := range languageLabels {
		languageOptions = append(languageOptions, code)
	}
	sort.Strings(languageOptions)
	sd.languageSelect = widget.NewSelect(languageOptions, nil)

	form := container.NewVBox(
		widget.NewLabel(text(KeyGalleryDirectory)),
		galleryDirRow,

		widget.NewLabel(text(KeyPreloadCount)),
		sd.preloadEntry,

		widget.NewLabel(text(KeyMaxParallel)),
		sd.maxParallelEntry,

		sd.deleteCheck,

		widget.NewSeparator(),
		widget.NewLabel(text(KeyLanguage)),
		sd.languageSelect,
	)

	sd.dialog = dialog.NewCustomConfirm(
		text(KeySettings),
		text(KeySave),
		text(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(420, 400))
}

// loadCurrentSettings loads current settings into the UI without writing
// anything back
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.galleryDirEntry.SetText(sd.settings.GetGalleryDirectory())
	sd.preloadEntry.SetText(strconv.Itoa(sd.settings.GetPreloadCount(sd.cfg.Preload)))
	sd.maxParallelEntry.SetText(strconv.Itoa(sd.settings.GetMaxParallelFetches(sd.cfg.Fetch.MaxParallel)))
	sd.deleteCheck.SetChecked(sd.settings.GetDeleteEnabled(sd.cfg.DeleteButton.Enabled))
	sd.languageSelect.SetSelected(sd.settings.GetLanguage())
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.galleryDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.save()
	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}

// save writes the form to preferences; unparsable numbers are ignored
func (sd *SettingsDialog) save() {
	if dir := sd.galleryDirEntry.Text; dir != "" {
		sd.settings.SetGalleryDirectory(dir)
	}

	if n, err := strconv.Atoi(sd.preloadEntry.Text); err == nil {
		sd.settings.SetPreloadCount(n)
	}

	if n, err := strconv.Atoi(sd.maxParallelEntry.Text); err == nil {
		sd.settings.SetMaxParallelFetches(n)
	}

	sd.settings.SetDeleteEnabled(sd.deleteCheck.Checked)

	if sd.languageSelect.Selected != "" {
		sd.settings.SetLanguage(sd.languageSelect.Selected)
	}

	if sd.onSaved != nil {
		sd.onSaved()
	}
}
