package preload

import (
	"strings"
	"testing"
	"time"

	"github.com/ytget/lightbox/internal/fetch"
	"github.com/ytget/lightbox/internal/model"
	"github.com/ytget/lightbox/internal/testutil"
)

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	for attempt := 0; attempt < 200; attempt++ {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newTestService(maxParallel int) (*Service, *testutil.ImageTransport) {
	rt := &testutil.ImageTransport{ImageData: testutil.MakeTestPNG(6, 4)}
	return NewService(maxParallel, fetch.WithHTTPClient(testutil.Client(rt))), rt
}

func statusOf(s *Service, id string) model.FetchStatus {
	task, ok := s.GetTask(id)
	if !ok {
		return ""
	}
	return task.Status
}

func TestNewService(t *testing.T) {
	service := NewService(0)

	if service.maxParallel != MinParallel {
		t.Errorf("Expected maxParallel clamped to %d, got %d", MinParallel, service.maxParallel)
	}

	if len(service.tasks) != 0 {
		t.Errorf("Expected empty tasks map, got %d items", len(service.tasks))
	}

	if NewService(50).maxParallel != MaxParallel {
		t.Errorf("Expected maxParallel clamped to %d", MaxParallel)
	}
}

func TestEnqueue(t *testing.T) {
	service, _ := newTestService(2)

	task, err := service.Enqueue("https://example.test/one.png")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.Locator != "https://example.test/one.png" {
		t.Errorf("Unexpected locator %s", task.Locator)
	}

	waitFor(t, "task completion", func() bool {
		return statusOf(service, task.ID) == model.FetchStatusCompleted
	})

	done, _ := service.GetTask(task.ID)
	if done.Width != 6 || done.Height != 4 || done.Format != "png" {
		t.Errorf("Unexpected decoded metadata: %dx%d %s", done.Width, done.Height, done.Format)
	}
	if _, ok := service.Image(task.Locator); !ok {
		t.Error("Expected decoded image in cache")
	}

	// Cached locator returns the completed task
	again, err := service.Enqueue(task.Locator)
	if err != nil {
		t.Fatalf("Expected no error for cached locator, got %v", err)
	}
	if again.ID != task.ID || again.Status != model.FetchStatusCompleted {
		t.Errorf("Expected completed task %s, got %s (%s)", task.ID, again.ID, again.Status)
	}
}

func TestEnqueue_Duplicate(t *testing.T) {
	rt := testutil.NewBlockingTransport(testutil.MakeTestPNG(2, 2))
	service := NewService(1, fetch.WithHTTPClient(testutil.Client(rt)))
	defer close(rt.Release)

	if _, err := service.Enqueue("https://example.test/a.png"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := service.Enqueue("https://example.test/a.png"); err == nil {
		t.Error("Expected error for duplicate locator, got nil")
	}
}

func TestEnqueue_Error(t *testing.T) {
	service, _ := newTestService(1)

	task, err := service.Enqueue("https://example.test/missing.jpg")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	waitFor(t, "task failure", func() bool {
		return statusOf(service, task.ID) == model.FetchStatusError
	})

	failed, _ := service.GetTask(task.ID)
	if failed.ErrorKind != fetch.KindInvalidStatusCode {
		t.Errorf("Expected error kind %s, got %s", fetch.KindInvalidStatusCode, failed.ErrorKind)
	}
	if failed.LastError == "" {
		t.Error("Expected error message")
	}
	if _, ok := service.Image(task.Locator); ok {
		t.Error("Failed task must not be cached")
	}
}

func TestMaxParallel(t *testing.T) {
	rt := testutil.NewBlockingTransport(testutil.MakeTestPNG(2, 2))
	service := NewService(1, fetch.WithHTTPClient(testutil.Client(rt)))

	first, _ := service.Enqueue("https://example.test/a.png")
	second, _ := service.Enqueue("https://example.test/b.png")
	<-rt.Started

	if statusOf(service, first.ID) != model.FetchStatusFetching {
		t.Errorf("Expected first task fetching, got %s", statusOf(service, first.ID))
	}
	if statusOf(service, second.ID) != model.FetchStatusPending {
		t.Errorf("Expected second task pending, got %s", statusOf(service, second.ID))
	}

	close(rt.Release)

	waitFor(t, "both tasks", func() bool {
		return statusOf(service, first.ID) == model.FetchStatusCompleted &&
			statusOf(service, second.ID) == model.FetchStatusCompleted
	})
}

func TestCancel(t *testing.T) {
	rt := testutil.NewBlockingTransport(testutil.MakeTestPNG(2, 2))
	service := NewService(1, fetch.WithHTTPClient(testutil.Client(rt)))

	running, _ := service.Enqueue("https://example.test/a.png")
	pending, _ := service.Enqueue("https://example.test/b.png")
	<-rt.Started

	if err := service.Cancel(pending.ID); err != nil {
		t.Fatalf("Cancel pending failed: %v", err)
	}
	if statusOf(service, pending.ID) != model.FetchStatusCancelled {
		t.Errorf("Expected pending task cancelled, got %s", statusOf(service, pending.ID))
	}

	if err := service.Cancel(running.ID); err != nil {
		t.Fatalf("Cancel running failed: %v", err)
	}
	close(rt.Release)

	waitFor(t, "slot release", func() bool {
		service.tasksMutex.RLock()
		defer service.tasksMutex.RUnlock()
		return service.activeCount == 0
	})
	if statusOf(service, running.ID) != model.FetchStatusCancelled {
		t.Errorf("Expected running task cancelled, got %s", statusOf(service, running.ID))
	}
	if _, ok := service.Image(running.Locator); ok {
		t.Error("Cancelled task must not be cached")
	}

	if err := service.Cancel(running.ID); err == nil {
		t.Error("Expected error cancelling a finished task")
	}
	if err := service.Cancel("non-existing-id"); err == nil {
		t.Error("Expected error for unknown task")
	}
}

func testGallery(names ...string) (*model.Gallery, []model.LightboxImage) {
	images := make([]model.LightboxImage, len(names))
	for i, name := range names {
		images[i] = model.NewLightboxImage("https://example.test/"+name+".png", "")
	}
	return model.NewGallery(images, 0), images
}

func TestPreload(t *testing.T) {
	service, rt := newTestService(3)
	g, images := testGallery("a", "b", "c", "d", "e")

	service.Preload(g, 1)
	waitFor(t, "window preload", func() bool {
		_, b := service.Image(images[1].ImageURL)
		return b
	})
	if len(service.GetAllTasks()) != 1 {
		t.Errorf("Expected 1 task for window 1 on the first page, got %d", len(service.GetAllTasks()))
	}
	if _, ok := service.Image(images[0].ImageURL); ok {
		t.Error("Current page must be left to the page view")
	}

	g.GoTo(4)
	service.Preload(g, 1)
	waitFor(t, "window move", func() bool {
		_, d := service.Image(images[3].ImageURL)
		return d
	})
	if _, ok := service.Image(images[1].ImageURL); ok {
		t.Error("Expected page outside the window to be evicted")
	}
	for _, task := range service.GetAllTasks() {
		if task.Locator != images[3].ImageURL {
			t.Errorf("Expected only the neighbour task to remain, found %s", task.Locator)
		}
	}
	if len(rt.Requests()) != 2 {
		t.Errorf("Expected 2 requests, got %d", len(rt.Requests()))
	}
}

func TestPreload_KeepsCachedCurrentPage(t *testing.T) {
	service, rt := newTestService(2)
	g, images := testGallery("a", "b", "c")

	service.Preload(g, 1)
	waitFor(t, "neighbour", func() bool {
		_, ok := service.Image(images[1].ImageURL)
		return ok
	})

	// The cached neighbour becomes the current page
	g.GoTo(1)
	service.Preload(g, 1)
	waitFor(t, "new neighbours", func() bool {
		_, a := service.Image(images[0].ImageURL)
		_, c := service.Image(images[2].ImageURL)
		return a && c
	})
	if _, ok := service.Image(images[1].ImageURL); !ok {
		t.Error("Expected cached current page to stay cached")
	}
	if len(rt.Requests()) != 3 {
		t.Errorf("Expected each page fetched once, got %d requests", len(rt.Requests()))
	}
}

func TestPreload_PagingKeepsTasksBounded(t *testing.T) {
	service, _ := newTestService(2)
	g, _ := testGallery("a", "b", "c", "d", "e")

	for i := 0; i < 100; i++ {
		g.GoTo((i % 2) * 4)
		service.Preload(g, 1)
	}
	waitFor(t, "fetches to settle", func() bool {
		service.tasksMutex.RLock()
		defer service.tasksMutex.RUnlock()
		return service.activeCount == 0 && len(service.queue) == 0
	})

	if n := len(service.GetAllTasks()); n > g.Count() {
		t.Errorf("Expected at most %d tasks after paging, got %d", g.Count(), n)
	}
	service.tasksMutex.RLock()
	defer service.tasksMutex.RUnlock()
	if len(service.byLocator) > g.Count() {
		t.Errorf("Expected at most %d locator entries, got %d", g.Count(), len(service.byLocator))
	}
	for locator, id := range service.byLocator {
		if _, ok := service.tasks[id]; !ok {
			t.Errorf("Locator %s points at a forgotten task", locator)
		}
	}
}

func TestEnqueue_ReplacesFinishedTask(t *testing.T) {
	service, _ := newTestService(1)

	failed, _ := service.Enqueue("https://example.test/missing.jpg")
	waitFor(t, "first failure", func() bool {
		return statusOf(service, failed.ID) == model.FetchStatusError
	})

	retry, err := service.Enqueue(failed.Locator)
	if err != nil {
		t.Fatalf("Expected retry after failure, got %v", err)
	}
	if retry.ID == failed.ID {
		t.Error("Expected a new task for the retry")
	}
	if _, ok := service.GetTask(failed.ID); ok {
		t.Error("Expected the failed task to be replaced")
	}
	waitFor(t, "second failure", func() bool {
		return statusOf(service, retry.ID) == model.FetchStatusError
	})
	if n := len(service.GetAllTasks()); n != 1 {
		t.Errorf("Expected 1 task, got %d", n)
	}
}

func TestCancelAll(t *testing.T) {
	rt := testutil.NewBlockingTransport(testutil.MakeTestPNG(2, 2))
	service := NewService(1, fetch.WithHTTPClient(testutil.Client(rt)))

	service.Enqueue("https://example.test/a.png")
	service.Enqueue("https://example.test/b.png")
	<-rt.Started

	service.CancelAll()
	close(rt.Release)

	for _, task := range service.GetAllTasks() {
		if task.Status != model.FetchStatusCancelled {
			t.Errorf("Expected task %s cancelled, got %s", task.ID, task.Status)
		}
	}
}

func TestUpdateCallback(t *testing.T) {
	service, _ := newTestService(1)

	updates := make(chan model.PreloadTask, 8)
	service.SetUpdateCallback(func(task *model.PreloadTask) {
		updates <- *task
	})

	task, err := service.Enqueue("https://example.test/a.png")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	seen := map[model.FetchStatus]bool{}
	deadline := time.After(2 * time.Second)
	for !seen[model.FetchStatusCompleted] || !seen[model.FetchStatusFetching] {
		select {
		case update := <-updates:
			if update.ID != task.ID {
				t.Errorf("Unexpected task in update: %s", update.ID)
			}
			seen[update.Status] = true
		case <-deadline:
			t.Fatal("Timed out waiting for updates")
		}
	}
}

func TestGenerateTaskID(t *testing.T) {
	id1 := generateTaskID()
	id2 := generateTaskID()

	if id1 == id2 {
		t.Error("Expected different task IDs")
	}

	if !strings.HasPrefix(id1, TaskIDPrefix) {
		t.Errorf("Expected ID to start with '%s', got: %s", TaskIDPrefix, id1)
	}

	// Check UUID format (prefix + 36 chars for UUID)
	if len(id1) != len(TaskIDPrefix)+36 {
		t.Errorf("Expected ID length %d, got %d for ID: %s", len(TaskIDPrefix)+36, len(id1), id1)
	}
}
