package ui

import (
	"image"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/ytget/lightbox/internal/config"
	"github.com/ytget/lightbox/internal/model"
	"github.com/ytget/lightbox/internal/preload"
)

// Lightbox is the full-window image viewer: header with delete and close
// buttons, the current image in the centre, caption and page counter below.
type Lightbox struct {
	app          fyne.App
	window       fyne.Window
	cfg          *config.LightboxConfig
	gallery      *model.Gallery
	preloader    preload.Preloader
	localization *Localization
	mobile       *MobileUI
	settings     *config.Settings
	logger       zerolog.Logger

	binding *ImageBinding
	image   *canvas.Image
	scroll  *container.Scroll
	zoom    *Zoom

	closeButton    *widget.Button
	deleteButton   *widget.Button
	settingsButton *widget.Button
	prevButton     *widget.Button
	nextButton     *widget.Button
	captionLabel   *widget.Label
	pageLabel      *widget.Label
	statusLabel    *widget.Label
	spinner        *widget.ProgressBarInfinite

	content fyne.CanvasObject

	// OnDelete is called after the page at index was removed from the gallery
	OnDelete func(index int, removed model.LightboxImage)
	// OnClose is called when the viewer is dismissed
	OnClose func()
	// OnPageChange is called with the new zero-based page
	OnPageChange func(index int)
}

// NewLightbox creates the viewer for gallery. preloader may be nil.
func NewLightbox(app fyne.App, cfg *config.LightboxConfig, gallery *model.Gallery, preloader preload.Preloader, localization *Localization) *Lightbox {
	if cfg == nil {
		cfg = config.Default()
	}
	if localization == nil {
		localization = NewLocalization()
	}

	lb := &Lightbox{
		app:          app,
		cfg:          cfg,
		gallery:      gallery,
		preloader:    preloader,
		localization: localization,
		mobile:       NewMobileUI(app),
		logger:       zerolog.Nop(),
		zoom:         NewZoom(float32(cfg.Zoom.MinimumScale), float32(cfg.Zoom.MaximumScale)),
	}

	lb.image = canvas.NewImageFromImage(nil)
	lb.image.FillMode = canvas.ImageFillContain
	lb.image.ScaleMode = canvas.ImageScaleSmooth
	lb.binding = NewImageBinding(lb.image, cfg.FetchOptions()...)

	lb.setupUI()
	return lb
}

// SetLogger sets the logger for the viewer and its image binding
func (lb *Lightbox) SetLogger(logger zerolog.Logger) {
	lb.logger = logger
	lb.binding.SetLogger(logger)
}

// Binding returns the image view binding of the centre image
func (lb *Lightbox) Binding() *ImageBinding {
	return lb.binding
}

// Content returns the root canvas object of the viewer
func (lb *Lightbox) Content() fyne.CanvasObject {
	return lb.content
}

// setupUI creates and arranges all UI components
func (lb *Lightbox) setupUI() {
	lb.closeButton = lb.mobile.CreateMobileButton(lb.buttonText(lb.cfg.CloseButton.Text, config.DefaultCloseText, KeyClose), lb.Close)
	lb.closeButton.Importance = widget.LowImportance
	if !lb.cfg.CloseButton.Enabled {
		lb.closeButton.Hide()
	}

	lb.deleteButton = lb.mobile.CreateMobileButton(lb.buttonText(lb.cfg.DeleteButton.Text, config.DefaultDeleteText, KeyDelete), lb.Delete)
	lb.deleteButton.Importance = widget.DangerImportance
	if !lb.cfg.DeleteButton.Enabled {
		lb.deleteButton.Hide()
	}

	lb.settingsButton = widget.NewButton(IconSettings, lb.ShowSettings)
	lb.settingsButton.Importance = widget.LowImportance
	lb.settingsButton.Hide()

	header := container.NewBorder(nil, nil, lb.deleteButton, container.NewHBox(lb.settingsButton, lb.closeButton))

	lb.prevButton = lb.mobile.CreateMobileButton(IconPrevious, func() { lb.Previous() })
	lb.nextButton = lb.mobile.CreateMobileButton(IconNext, func() { lb.Next() })

	// Loading indicator over the image, hidden by default
	lb.statusLabel = widget.NewLabel("")
	lb.statusLabel.Alignment = fyne.TextAlignCenter
	lb.spinner = widget.NewProgressBarInfinite()
	lb.spinner.Hide()
	status := container.NewVBox(lb.spinner, lb.statusLabel)

	lb.scroll = container.NewScroll(lb.image)

	center := container.NewBorder(nil, nil, lb.prevButton, lb.nextButton,
		container.NewStack(lb.scroll, container.NewCenter(status)))

	lb.captionLabel = widget.NewLabel("")
	lb.captionLabel.Wrapping = fyne.TextWrapWord
	if !lb.cfg.InfoLabel.Enabled {
		lb.captionLabel.Hide()
	}

	lb.pageLabel = widget.NewLabel("")
	if !lb.cfg.PageIndicator.Enabled {
		lb.pageLabel.Hide()
	}

	footer := container.NewBorder(nil, nil, nil, lb.pageLabel, lb.captionLabel)

	lb.content = container.NewBorder(header, footer, nil, nil, center)
}

// Show puts the viewer into window and loads the current page
func (lb *Lightbox) Show(window fyne.Window) {
	lb.window = window
	window.SetContent(lb.content)
	lb.mobile.ConfigureWindow(window, lb.cfg.HideStatusBar)

	window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyLeft:
			lb.Previous()
		case fyne.KeyRight:
			lb.Next()
		case fyne.KeyEscape:
			lb.Close()
		}
	})
	window.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case '+', '=':
			lb.applyZoom(lb.zoom.Step(1))
		case '-':
			lb.applyZoom(lb.zoom.Step(-1))
		case '0':
			lb.applyZoom(lb.zoom.Reset())
		case 'z':
			lb.applyZoom(lb.zoom.Toggle())
		}
	})

	lb.loadCurrent()
}

// GoTo shows page index (clamped)
func (lb *Lightbox) GoTo(index int) bool {
	if !lb.gallery.GoTo(index) {
		return false
	}
	lb.pageChanged()
	return true
}

// Next shows the next page
func (lb *Lightbox) Next() bool {
	if !lb.gallery.Next() {
		return false
	}
	lb.pageChanged()
	return true
}

// Previous shows the previous page
func (lb *Lightbox) Previous() bool {
	if !lb.gallery.Previous() {
		return false
	}
	lb.pageChanged()
	return true
}

// Delete removes the current page and fires OnDelete. Removing the last
// page closes the viewer.
func (lb *Lightbox) Delete() {
	index := lb.gallery.CurrentIndex()
	if index < 0 {
		return
	}
	removed, err := lb.gallery.Remove(index)
	if err != nil {
		lb.logger.Error().Err(err).Msg("delete failed")
		return
	}
	lb.logger.Info().Str("locator", removed.ImageURL).Int("page", index).Msg("image removed")

	if lb.OnDelete != nil {
		lb.OnDelete(index, removed)
	}

	if lb.gallery.IsEmpty() {
		lb.Close()
		return
	}
	lb.pageChanged()
}

// Close cancels outstanding fetches and fires OnClose
func (lb *Lightbox) Close() {
	lb.binding.CancelImageFetch()
	if lb.preloader != nil {
		lb.preloader.CancelAll()
	}
	if lb.OnClose != nil {
		lb.OnClose()
	}
}

// SetSettings enables the settings button and applies persisted preferences
func (lb *Lightbox) SetSettings(settings *config.Settings) {
	lb.settings = settings
	if settings == nil {
		lb.settingsButton.Hide()
		return
	}
	lb.settingsButton.Show()
	lb.ApplySettings()
}

// ApplySettings overlays persisted preferences onto the running viewer
func (lb *Lightbox) ApplySettings() {
	if lb.settings == nil {
		return
	}
	lb.settings.Apply(lb.cfg)
	lb.localization.SetLanguage(lb.settings.GetLanguage())

	if lb.cfg.DeleteButton.Enabled {
		lb.deleteButton.Show()
	} else {
		lb.deleteButton.Hide()
	}
	if lb.preloader != nil {
		lb.preloader.SetMaxParallel(lb.cfg.Fetch.MaxParallel)
	}
	lb.refreshTexts()
}

// ShowSettings opens the preferences dialog
func (lb *Lightbox) ShowSettings() {
	if lb.settings == nil || lb.window == nil {
		return
	}
	NewSettingsDialog(lb.settings, lb.cfg, lb.localization, lb.window, func() {
		lb.ApplySettings()
		lb.loadCurrent()
	}).Show()
}

// refreshTexts re-reads every localized label
func (lb *Lightbox) refreshTexts() {
	lb.closeButton.SetText(lb.buttonText(lb.cfg.CloseButton.Text, config.DefaultCloseText, KeyClose))
	lb.deleteButton.SetText(lb.buttonText(lb.cfg.DeleteButton.Text, config.DefaultDeleteText, KeyDelete))
	lb.refreshTitle()
}

// refreshTitle names the current page in the window title
func (lb *Lightbox) refreshTitle() {
	if lb.window == nil {
		return
	}
	title := lb.localization.GetText(KeyAppTitle)
	if current, ok := lb.gallery.Current(); ok {
		title = current.DisplayName() + " - " + title
	}
	lb.window.SetTitle(title)
}

// applyZoom resizes the image inside the scroll to the current scale
func (lb *Lightbox) applyZoom(changed bool) {
	if !changed {
		return
	}
	if lb.zoom.Zoomed() {
		viewport := lb.scroll.Size()
		factor := lb.zoom.Scale() / lb.zoom.min
		lb.image.SetMinSize(fyne.NewSize(viewport.Width*factor, viewport.Height*factor))
	} else {
		lb.image.SetMinSize(fyne.NewSize(0, 0))
		lb.scroll.Offset = fyne.NewPos(0, 0)
	}
	lb.image.Refresh()
	lb.scroll.Refresh()
}

func (lb *Lightbox) pageChanged() {
	lb.applyZoom(lb.zoom.Reset())
	if lb.OnPageChange != nil {
		lb.OnPageChange(lb.gallery.CurrentIndex())
	}
	lb.loadCurrent()
}

// loadCurrent shows the current page, from the preload cache when possible
func (lb *Lightbox) loadCurrent() {
	current, ok := lb.gallery.Current()
	if !ok {
		lb.binding.CancelImageFetch()
		lb.image.Image = nil
		lb.image.Refresh()
		lb.setStatus(lb.localization.GetText(KeyNoImages))
		lb.refreshChrome()
		return
	}

	if img, cached := lb.cachedImage(current.ImageURL); cached {
		lb.binding.ShowImage(img)
		lb.setStatus("")
	} else {
		lb.binding.SetImage(current.ImageURL, func(img image.Image) {
			if img == nil {
				lb.setStatus(lb.localization.GetText(KeyLoadFailed))
				return
			}
			lb.setStatus("")
		})
		lb.setStatus(lb.localization.GetText(KeyLoading))
	}

	if lb.preloader != nil {
		lb.preloader.Preload(lb.gallery, lb.cfg.Preload)
	}
	lb.refreshChrome()
}

func (lb *Lightbox) cachedImage(locator string) (image.Image, bool) {
	if lb.preloader == nil {
		return nil, false
	}
	return lb.preloader.Image(locator)
}

// refreshChrome updates labels and button states for the current page
func (lb *Lightbox) refreshChrome() {
	lb.pageLabel.SetText(lb.gallery.PageLabel())

	if lb.gallery.HasPrevious() {
		lb.prevButton.Enable()
	} else {
		lb.prevButton.Disable()
	}
	if lb.gallery.HasNext() {
		lb.nextButton.Enable()
	} else {
		lb.nextButton.Disable()
	}

	current, _ := lb.gallery.Current()
	lb.captionLabel.SetText(strings.TrimSpace(current.Text))
	lb.refreshTitle()
}

// setStatus shows text over the image; the spinner runs while the binding loads
func (lb *Lightbox) setStatus(text string) {
	lb.statusLabel.SetText(text)
	if lb.binding.Loading() {
		lb.spinner.Show()
	} else {
		lb.spinner.Hide()
	}
}

// buttonText localizes a label that was left at its default
func (lb *Lightbox) buttonText(configured, def, key string) string {
	if configured == "" || configured == def {
		return lb.localization.GetText(key)
	}
	return configured
}
