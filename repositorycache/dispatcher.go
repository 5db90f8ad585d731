package repositorycache

import (
	"context"
	"sync"
)

// Dispatcher decides where an invalidation cascade runs.
type Dispatcher interface {
	Dispatch(ctx context.Context, fn func(ctx context.Context))
}

// SyncDispatcher runs cascades inline, before the write returns.
type SyncDispatcher struct{}

func (SyncDispatcher) Dispatch(ctx context.Context, fn func(ctx context.Context)) {
	fn(ctx)
}

// AsyncDispatcher runs each cascade on its own goroutine. Cascades are not
// cancelled when the request context is.
type AsyncDispatcher struct {
	wg sync.WaitGroup
}

// NewAsyncDispatcher creates a background dispatcher.
func NewAsyncDispatcher() *AsyncDispatcher {
	return &AsyncDispatcher{}
}

func (d *AsyncDispatcher) Dispatch(ctx context.Context, fn func(ctx context.Context)) {
	ctx = context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		fn(ctx)
	}()
}

// Wait blocks until every dispatched cascade has finished.
func (d *AsyncDispatcher) Wait() {
	d.wg.Wait()
}
