// Package cleanup reclaims media objects that lost their database row: an
// upload whose insert failed, or deleted rows whose media delete failed.
// Reclamation is best-effort and process-local; entries are retried on an
// interval and dropped after too many failures.
package cleanup

import (
	"context"
	"log"
	"time"

	"ourphotos/media"

	cmap "github.com/orcaman/concurrent-map/v2"
)

const maxAttempts = 5

type Reconciler struct {
	store    media.Store
	pending  cmap.ConcurrentMap[string, int] // object name -> failed attempts
	interval time.Duration
	stop     chan struct{}
}

func NewReconciler(store media.Store, interval time.Duration) *Reconciler {
	return &Reconciler{
		store:    store,
		pending:  cmap.New[int](),
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Enqueue marks object names as orphaned. Safe to call from request handlers.
func (r *Reconciler) Enqueue(objectNames ...string) {
	for _, name := range objectNames {
		if name == "" {
			continue
		}
		r.pending.SetIfAbsent(name, 0)
	}
}

func (r *Reconciler) Pending() int {
	return r.pending.Count()
}

// Run blocks until Stop is called. Meant to be started as a goroutine.
func (r *Reconciler) Run() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.Sweep(context.Background())
		case <-r.stop:
			return
		}
	}
}

func (r *Reconciler) Stop() {
	close(r.stop)
}

// Sweep attempts one delete per pending object.
func (r *Reconciler) Sweep(ctx context.Context) {
	for item := range r.pending.IterBuffered() {
		if err := r.store.Delete(ctx, item.Key); err != nil {
			attempts := item.Val + 1
			if attempts >= maxAttempts {
				log.Printf("cleanup: giving up on %s after %d attempts: %v", item.Key, attempts, err)
				r.pending.Remove(item.Key)
				continue
			}
			r.pending.Set(item.Key, attempts)
			continue
		}
		r.pending.Remove(item.Key)
	}
}
