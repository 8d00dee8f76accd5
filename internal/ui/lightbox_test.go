package ui

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"github.com/ytget/lightbox/internal/config"
	"github.com/ytget/lightbox/internal/model"
	"github.com/ytget/lightbox/internal/testutil"
)

func newTestGallery(t *testing.T, captions ...string) *model.Gallery {
	t.Helper()
	images := make([]model.LightboxImage, len(captions))
	for i, caption := range captions {
		path := testutil.WriteFile(t, "page.png", testutil.MakeTestPNG(i+1, i+1))
		images[i] = model.NewLightboxImage(path, caption)
	}
	return model.NewGallery(images, 0)
}

func newTestLightbox(t *testing.T, cfg *config.LightboxConfig, g *model.Gallery) (*Lightbox, mainQueue) {
	t.Helper()
	app := test.NewApp()
	lb := NewLightbox(app, cfg, g, nil, nil)
	q := make(mainQueue, 8)
	lb.binding.runOnMain = q.post
	lb.Show(test.NewWindow(nil))
	return lb, q
}

func TestLightbox_Paging(t *testing.T) {
	lb, q := newTestLightbox(t, nil, newTestGallery(t, "one", "two", "three"))
	q.runNext(t)

	if lb.pageLabel.Text != "1/3" {
		t.Errorf("Expected page label 1/3, got %s", lb.pageLabel.Text)
	}
	if !lb.prevButton.Disabled() || lb.nextButton.Disabled() {
		t.Error("Expected only the next button enabled on the first page")
	}
	if lb.image.Image == nil || lb.image.Image.Bounds().Dx() != 1 {
		t.Error("Expected the first page to be shown")
	}

	var pages []int
	lb.OnPageChange = func(index int) { pages = append(pages, index) }

	if !lb.Next() {
		t.Fatal("Next() should move to the second page")
	}
	q.runNext(t)
	if lb.pageLabel.Text != "2/3" || lb.captionLabel.Text != "two" {
		t.Errorf("Unexpected footer %q %q", lb.pageLabel.Text, lb.captionLabel.Text)
	}
	if lb.image.Image.Bounds().Dx() != 2 {
		t.Error("Expected the second page to be shown")
	}

	lb.GoTo(10)
	q.runNext(t)
	if lb.pageLabel.Text != "3/3" || !lb.nextButton.Disabled() {
		t.Error("GoTo past the end should clamp to the last page")
	}
	if lb.Next() {
		t.Error("Next() on the last page should not move")
	}

	if len(pages) != 2 || pages[0] != 1 || pages[1] != 2 {
		t.Errorf("Unexpected page changes %v", pages)
	}
}

func TestLightbox_Keyboard(t *testing.T) {
	lb, q := newTestLightbox(t, nil, newTestGallery(t, "one", "two"))
	q.runNext(t)

	typeKey := lb.window.Canvas().OnTypedKey()
	typeRune := lb.window.Canvas().OnTypedRune()

	typeKey(&fyne.KeyEvent{Name: fyne.KeyRight})
	q.runNext(t)
	if lb.gallery.CurrentIndex() != 1 {
		t.Errorf("Expected right arrow to page forward, got page %d", lb.gallery.CurrentIndex())
	}

	typeRune('+')
	if !lb.zoom.Zoomed() {
		t.Error("Expected + to zoom in")
	}
	typeRune('0')
	if lb.zoom.Zoomed() {
		t.Error("Expected 0 to reset zoom")
	}
	typeRune('z')
	if lb.zoom.Scale() != float32(config.DefaultMaximumScale) {
		t.Errorf("Expected z to jump to maximum scale, got %v", lb.zoom.Scale())
	}

	typeKey(&fyne.KeyEvent{Name: fyne.KeyLeft})
	q.runNext(t)
	if lb.gallery.CurrentIndex() != 0 {
		t.Errorf("Expected left arrow to page back, got page %d", lb.gallery.CurrentIndex())
	}
	if lb.zoom.Zoomed() {
		t.Error("Changing page should reset zoom")
	}

	closed := false
	lb.OnClose = func() { closed = true }
	typeKey(&fyne.KeyEvent{Name: fyne.KeyEscape})
	if !closed {
		t.Error("Expected escape to close the viewer")
	}
}

func TestLightbox_Delete(t *testing.T) {
	cfg := config.Default()
	cfg.DeleteButton.Enabled = true
	g := newTestGallery(t, "one", "two")
	lb, q := newTestLightbox(t, cfg, g)
	q.runNext(t)

	if !lb.deleteButton.Visible() {
		t.Error("Expected delete button visible when enabled")
	}

	var deleted []string
	closed := false
	lb.OnDelete = func(index int, removed model.LightboxImage) { deleted = append(deleted, removed.Text) }
	lb.OnClose = func() { closed = true }

	lb.Delete()
	q.runNext(t)
	if g.Count() != 1 || lb.pageLabel.Text != "1/1" {
		t.Errorf("Expected one page left, got %d (%s)", g.Count(), lb.pageLabel.Text)
	}

	lb.Delete()
	if !closed {
		t.Error("Deleting the last page should close the viewer")
	}
	if len(deleted) != 2 || deleted[0] != "one" || deleted[1] != "two" {
		t.Errorf("Unexpected deletions %v", deleted)
	}
}

func TestLightbox_ButtonsFollowConfig(t *testing.T) {
	cfg := config.Default()
	cfg.CloseButton.Text = "Done"
	cfg.PageIndicator.Enabled = false
	lb, q := newTestLightbox(t, cfg, newTestGallery(t, ""))
	q.runNext(t)

	if lb.closeButton.Text != "Done" {
		t.Errorf("Expected custom close text, got %s", lb.closeButton.Text)
	}
	if lb.deleteButton.Visible() {
		t.Error("Delete button is disabled by default")
	}
	if lb.pageLabel.Visible() {
		t.Error("Page label should be hidden when the indicator is disabled")
	}
}

func TestLightbox_Settings(t *testing.T) {
	lb, q := newTestLightbox(t, nil, newTestGallery(t, "one"))
	q.runNext(t)

	settings := config.NewSettings(lb.app)
	settings.SetDeleteEnabled(true)
	settings.SetLanguage("ru")
	lb.SetSettings(settings)

	if !lb.settingsButton.Visible() {
		t.Error("Expected settings button once settings are set")
	}
	if !lb.deleteButton.Visible() {
		t.Error("Expected delete button enabled from preferences")
	}
	if lb.closeButton.Text != "Закрыть" {
		t.Errorf("Expected localized close text, got %s", lb.closeButton.Text)
	}
}

func TestLightbox_EmptyGallery(t *testing.T) {
	lb, _ := newTestLightbox(t, nil, model.NewGallery(nil, 0))

	if lb.statusLabel.Text != lb.localization.GetText(KeyNoImages) {
		t.Errorf("Expected empty status, got %q", lb.statusLabel.Text)
	}
	if lb.binding.Loading() {
		t.Error("Empty gallery must not fetch")
	}
}

func TestLightbox_LoadFailure(t *testing.T) {
	g := model.NewGallery([]model.LightboxImage{model.NewLightboxImage(t.TempDir()+"/missing.png", "")}, 0)
	lb, q := newTestLightbox(t, nil, g)

	if lb.statusLabel.Text != lb.localization.GetText(KeyLoading) {
		t.Errorf("Expected loading status, got %q", lb.statusLabel.Text)
	}
	q.runNext(t)
	if lb.statusLabel.Text != lb.localization.GetText(KeyLoadFailed) {
		t.Errorf("Expected failure status, got %q", lb.statusLabel.Text)
	}
}

func TestLightbox_SpinnerFollowsBinding(t *testing.T) {
	lb, q := newTestLightbox(t, nil, newTestGallery(t, "one", "two"))

	if !lb.binding.Loading() || !lb.spinner.Visible() {
		t.Error("Expected spinner while the first page loads")
	}
	q.runNext(t)
	if lb.binding.Loading() || lb.spinner.Visible() {
		t.Error("Expected spinner hidden once the page is shown")
	}
}

func TestLightbox_TitleNamesPage(t *testing.T) {
	lb, q := newTestLightbox(t, nil, newTestGallery(t, "first page", ""))
	q.runNext(t)

	appTitle := lb.localization.GetText(KeyAppTitle)
	if want := "first page - " + appTitle; lb.window.Title() != want {
		t.Errorf("Expected title %q, got %q", want, lb.window.Title())
	}

	lb.Next()
	q.runNext(t)
	if want := "page.png - " + appTitle; lb.window.Title() != want {
		t.Errorf("Expected file name in title %q, got %q", want, lb.window.Title())
	}
}

// cachePreloader serves every page from memory
type cachePreloader struct {
	images    map[string]image.Image
	preloaded []int
	cancelled bool
}

func (p *cachePreloader) SetUpdateCallback(func(*model.PreloadTask)) {}

func (p *cachePreloader) Enqueue(locator string) (*model.PreloadTask, error) {
	return &model.PreloadTask{Locator: locator, Status: model.FetchStatusCompleted}, nil
}

func (p *cachePreloader) Preload(g *model.Gallery, window int) {
	p.preloaded = append(p.preloaded, g.CurrentIndex())
}

func (p *cachePreloader) Image(locator string) (image.Image, bool) {
	img, ok := p.images[locator]
	return img, ok
}

func (p *cachePreloader) GetTask(id string) (*model.PreloadTask, bool) { return nil, false }
func (p *cachePreloader) GetAllTasks() []*model.PreloadTask          { return nil }
func (p *cachePreloader) Cancel(id string) error                     { return nil }
func (p *cachePreloader) CancelAll()                                 { p.cancelled = true }
func (p *cachePreloader) SetMaxParallel(max int)                     {}

func TestLightbox_UsesPreloadedImage(t *testing.T) {
	g := newTestGallery(t, "one", "two")
	cached := testutil.MakeTestImage(7, 7)
	p := &cachePreloader{images: map[string]image.Image{}}
	for _, img := range g.Images {
		p.images[img.ImageURL] = cached
	}

	lb := NewLightbox(test.NewApp(), nil, g, p, nil)
	lb.Show(test.NewWindow(nil))

	if lb.binding.Loading() || lb.spinner.Visible() {
		t.Error("Cached page must not be fetched")
	}
	if lb.image.Image != image.Image(cached) {
		t.Error("Expected the preloaded image to be shown")
	}

	lb.Next()
	lb.Close()
	if len(p.preloaded) != 2 || p.preloaded[1] != 1 {
		t.Errorf("Expected preload on every page, got %v", p.preloaded)
	}
	if !p.cancelled {
		t.Error("Expected Close to cancel preloads")
	}
}
