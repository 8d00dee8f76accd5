package preload

import (
	"image"

	"github.com/ytget/lightbox/internal/model"
)

// Preloader defines the interface for the preload service.
type Preloader interface {
	SetUpdateCallback(func(*model.PreloadTask))
	Enqueue(locator string) (*model.PreloadTask, error)
	Preload(g *model.Gallery, window int)
	Image(locator string) (image.Image, bool)
	GetTask(id string) (*model.PreloadTask, bool)
	GetAllTasks() []*model.PreloadTask
	Cancel(id string) error
	CancelAll()

	// SetMaxParallel sets the maximum number of parallel fetches
	SetMaxParallel(max int)
}
