package imgcrawl

// Frontier is the FIFO work queue of a crawl run.
// It does not deduplicate: the VisitedSet is consulted when a task is popped.
type Frontier interface {
	// Push appends a task to the back of the queue.
	Push(task CrawlTask)

	// Pop removes the task at the front of the queue.
	// Returns false if the frontier is empty.
	Pop() (CrawlTask, bool)

	// Len returns the number of queued tasks.
	Len() int
}

// VisitedSet records the pages already processed in a crawl run.
// It only grows.
type VisitedSet interface {
	Add(url string)
	Contains(url string) bool
	Len() int
}
