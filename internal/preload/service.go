package preload

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ytget/lightbox/internal/fetch"
	"github.com/ytget/lightbox/internal/model"
)

// Parallelism bounds
const (
	MinParallel     = 1
	MaxParallel     = 10
	DefaultParallel = 2

	TaskIDPrefix = "preload-"
)

// Service handles preload operations
type Service struct {
	tasks       map[string]*model.PreloadTask
	byLocator   map[string]string // locator -> latest task ID
	fetchers    map[string]fetch.Fetcher
	images      map[string]image.Image
	queue       []string // pending task IDs, nearest page first
	tasksMutex  sync.RWMutex
	maxParallel int
	activeCount int
	fetchOpts   []fetch.Option
	logger      zerolog.Logger
	onUpdate    func(*model.PreloadTask) // callback for UI updates
}

// NewService creates a new preload service. The fetch options are applied to
// every fetcher the service creates.
func NewService(maxParallel int, opts ...fetch.Option) *Service {
	return &Service{
		tasks:       make(map[string]*model.PreloadTask),
		byLocator:   make(map[string]string),
		fetchers:    make(map[string]fetch.Fetcher),
		images:      make(map[string]image.Image),
		maxParallel: clampParallel(maxParallel),
		fetchOpts:   opts,
		logger:      zerolog.Nop(),
	}
}

// SetLogger sets the logger for preload diagnostics
func (s *Service) SetLogger(logger zerolog.Logger) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.logger = logger
}

// SetUpdateCallback sets the callback function for task updates. The
// callback receives a snapshot and may be called from any goroutine.
func (s *Service) SetUpdateCallback(callback func(*model.PreloadTask)) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.onUpdate = callback
}

// Enqueue adds a preload task for locator. A locator already cached returns
// its completed task; a locator already queued or fetching is an error.
func (s *Service) Enqueue(locator string) (*model.PreloadTask, error) {
	s.tasksMutex.Lock()

	if id, ok := s.byLocator[locator]; ok {
		existing := s.tasks[id]
		if !existing.Status.IsFinished() {
			s.tasksMutex.Unlock()
			return nil, fmt.Errorf("preload already queued for locator: %s", locator)
		}
		if _, cached := s.images[locator]; cached {
			snapshot := *existing
			s.tasksMutex.Unlock()
			return &snapshot, nil
		}
		delete(s.tasks, id)
	}

	task := &model.PreloadTask{
		ID:      generateTaskID(),
		Locator: locator,
		Status:  model.FetchStatusPending,
	}
	s.tasks[task.ID] = task
	s.byLocator[locator] = task.ID
	s.queue = append(s.queue, task.ID)

	started := s.startPendingLocked()
	snapshot := *task
	s.tasksMutex.Unlock()

	s.notifyAll(started)
	return &snapshot, nil
}

// Preload enqueues the neighbours of the current page inside the preload
// window of g and drops everything outside it. Outside the window cached
// images are evicted, unfinished tasks cancelled and all tasks forgotten.
// The current page is kept if cached but never fetched here; the page view
// loads it itself.
func (s *Service) Preload(g *model.Gallery, window int) {
	wanted := make(map[string]bool)
	var order []string
	for n, i := range g.PreloadWindow(window) {
		locator := g.Images[i].ImageURL
		if wanted[locator] {
			continue
		}
		wanted[locator] = true
		if n > 0 {
			order = append(order, locator)
		}
	}

	s.tasksMutex.Lock()
	var cancelled []model.PreloadTask
	for locator := range s.images {
		if !wanted[locator] {
			delete(s.images, locator)
		}
	}
	for id, task := range s.tasks {
		if wanted[task.Locator] {
			continue
		}
		if !task.Status.IsFinished() {
			s.cancelLocked(task)
			cancelled = append(cancelled, *task)
		}
		delete(s.tasks, id)
		if s.byLocator[task.Locator] == id {
			delete(s.byLocator, task.Locator)
		}
	}
	started := s.startPendingLocked()
	logger := s.logger
	s.tasksMutex.Unlock()

	s.notifyAll(cancelled)
	s.notifyAll(started)

	for _, locator := range order {
		if _, err := s.Enqueue(locator); err != nil {
			logger.Debug().Err(err).Str("locator", locator).Msg("preload skipped")
		}
	}
}

// Image returns the cached image for locator
func (s *Service) Image(locator string) (image.Image, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	img, ok := s.images[locator]
	return img, ok
}

// GetTask returns a snapshot of a task by ID
func (s *Service) GetTask(id string) (*model.PreloadTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	if !exists {
		return nil, false
	}
	snapshot := *task
	return &snapshot, true
}

// GetAllTasks returns snapshots of all tasks
func (s *Service) GetAllTasks() []*model.PreloadTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]*model.PreloadTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		snapshot := *task
		tasks = append(tasks, &snapshot)
	}
	return tasks
}

// Cancel cancels a pending or running task
func (s *Service) Cancel(id string) error {
	s.tasksMutex.Lock()

	task, exists := s.tasks[id]
	if !exists {
		s.tasksMutex.Unlock()
		return fmt.Errorf("task not found: %s", id)
	}
	if task.Status.IsFinished() {
		s.tasksMutex.Unlock()
		return fmt.Errorf("task is not active: %s", task.Status)
	}

	s.cancelLocked(task)
	snapshot := *task
	s.tasksMutex.Unlock()

	s.notifyUpdate(&snapshot)
	return nil
}

// CancelAll cancels every unfinished task and clears the image cache
func (s *Service) CancelAll() {
	s.tasksMutex.Lock()
	var cancelled []model.PreloadTask
	for _, task := range s.tasks {
		if !task.Status.IsFinished() {
			s.cancelLocked(task)
			cancelled = append(cancelled, *task)
		}
	}
	s.images = make(map[string]image.Image)
	s.tasksMutex.Unlock()

	s.notifyAll(cancelled)
}

// SetMaxParallel sets the maximum number of parallel fetches
func (s *Service) SetMaxParallel(max int) {
	s.tasksMutex.Lock()
	s.maxParallel = clampParallel(max)
	started := s.startPendingLocked()
	s.tasksMutex.Unlock()

	s.notifyAll(started)
}

// cancelLocked marks task cancelled and stops its fetch. A running disk read
// cannot be interrupted; its result is discarded in runTask.
func (s *Service) cancelLocked(task *model.PreloadTask) {
	if task.Status.IsActive() {
		if f, ok := s.fetchers[task.ID]; ok {
			f.Cancel()
		}
	}
	task.Status = model.FetchStatusCancelled
	task.FinishedAt = time.Now()
	s.removeFromQueueLocked(task.ID)
}

// startPendingLocked starts queued tasks while there is capacity and
// returns snapshots of the tasks it started.
func (s *Service) startPendingLocked() []model.PreloadTask {
	var started []model.PreloadTask
	for s.activeCount < s.maxParallel && len(s.queue) > 0 {
		id := s.queue[0]
		s.queue = s.queue[1:]

		task, ok := s.tasks[id]
		if !ok || task.Status != model.FetchStatusPending {
			continue
		}

		f := fetch.NewImageFetcher(append([]fetch.Option{fetch.WithLogger(s.logger)}, s.fetchOpts...)...)
		s.fetchers[id] = f
		s.activeCount++
		task.Status = model.FetchStatusFetching
		task.StartedAt = time.Now()
		started = append(started, *task)

		go s.runTask(task, f.Load(task.Locator))
	}
	return started
}

// runTask waits for the fetch of task and records its outcome
func (s *Service) runTask(task *model.PreloadTask, results <-chan fetch.Result) {
	res, delivered := <-results

	s.tasksMutex.Lock()
	s.activeCount--
	delete(s.fetchers, task.ID)

	switch {
	case task.Status == model.FetchStatusCancelled:
		// Cancelled while running; drop whatever arrived.
	case !delivered:
		task.Status = model.FetchStatusCancelled
		task.FinishedAt = time.Now()
	case res.Err != nil:
		task.Status = model.FetchStatusError
		task.LastError = res.Err.Error()
		task.ErrorKind = fetch.Kind(res.Err)
		task.FinishedAt = time.Now()
		s.logger.Warn().Err(res.Err).Str("locator", task.Locator).Str("kind", task.ErrorKind).Msg("preload failed")
	default:
		b := res.Image.Bounds()
		task.Status = model.FetchStatusCompleted
		task.Width = b.Dx()
		task.Height = b.Dy()
		task.Format = res.Format
		task.FinishedAt = time.Now()
		s.images[task.Locator] = res.Image
		s.logger.Debug().Str("locator", task.Locator).Dur("elapsed", task.Elapsed()).Msg("preload completed")
	}

	finished := *task
	started := s.startPendingLocked()
	s.tasksMutex.Unlock()

	s.notifyUpdate(&finished)
	s.notifyAll(started)
}

func (s *Service) removeFromQueueLocked(id string) {
	for i, queued := range s.queue {
		if queued == id {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
}

// notifyAll sends task snapshots to the update callback
func (s *Service) notifyAll(snapshots []model.PreloadTask) {
	for i := range snapshots {
		s.notifyUpdate(&snapshots[i])
	}
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.PreloadTask) {
	s.tasksMutex.RLock()
	callback := s.onUpdate
	s.tasksMutex.RUnlock()

	if callback != nil {
		callback(task)
	}
}

func clampParallel(n int) int {
	if n < MinParallel {
		return MinParallel
	}
	if n > MaxParallel {
		return MaxParallel
	}
	return n
}

// generateTaskID generates a unique task ID
func generateTaskID() string {
	return TaskIDPrefix + uuid.New().String()
}
