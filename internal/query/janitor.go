package query

import (
	"log/slog"
	"time"
)

// Cleaner is a cache that can drop idle entries.
type Cleaner interface {
	CleanExpired() int
}

// Janitor periodically evicts idle entries from the registered caches.
type Janitor struct {
	caches  []Cleaner
	log     *slog.Logger
	started bool
	stop    chan struct{}
	done    chan struct{}
}

func NewJanitor(log *slog.Logger, caches ...Cleaner) *Janitor {
	return &Janitor{
		caches: caches,
		log:    log,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (j *Janitor) Start(interval time.Duration) {
	j.started = true
	go j.loop(interval)
}

func (j *Janitor) loop(interval time.Duration) {
	defer close(j.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.Sweep()
		case <-j.stop:
			return
		}
	}
}

// Sweep runs one cleanup pass and returns the number of entries removed.
func (j *Janitor) Sweep() int {
	total := 0
	for _, c := range j.caches {
		total += c.CleanExpired()
	}
	if total > 0 && j.log != nil {
		j.log.Debug("cache entries evicted", "count", total)
	}
	return total
}

// Stop ends the loop started by Start and waits for it to exit.
func (j *Janitor) Stop() {
	if !j.started {
		return
	}
	close(j.stop)
	<-j.done
}
