package fetch

// Fetcher defines the interface for the image fetcher.
type Fetcher interface {
	// Fetch loads the image at locator and calls completion at most once.
	Fetch(locator string, completion Completion)

	// Load loads the image at locator and delivers at most one Result on
	// the returned channel, which is closed afterwards.
	Load(locator string) <-chan Result

	// Cancel aborts the in-flight network request, if any.
	Cancel()

	// Active reports whether a network result is still eligible for delivery.
	Active() bool
}
