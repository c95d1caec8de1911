package crawl

import (
	"sync"

	"github.com/fwojciec/imgcrawl"
)

// Compile-time interface verification.
var _ imgcrawl.Frontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO queue of crawl tasks.
// It does not deduplicate; a URL may be queued several times and is filtered
// by the VisitedSet when popped.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	queue []imgcrawl.CrawlTask
	head  int
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{}
}

// Push appends a task to the back of the queue.
func (f *Frontier) Push(task imgcrawl.CrawlTask) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, task)
}

// Pop removes and returns the task at the front of the queue.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (imgcrawl.CrawlTask, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.head == len(f.queue) {
		return imgcrawl.CrawlTask{}, false
	}
	task := f.queue[f.head]
	f.queue[f.head] = imgcrawl.CrawlTask{}
	f.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if f.head > 64 && f.head*2 >= len(f.queue) {
		f.queue = append([]imgcrawl.CrawlTask(nil), f.queue[f.head:]...)
		f.head = 0
	}
	return task, true
}

// Len returns the number of queued tasks.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue) - f.head
}
