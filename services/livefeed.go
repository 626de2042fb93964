package services

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Asadganteng/ruang-iklim-scada/entities"
	"github.com/Asadganteng/ruang-iklim-scada/repositories"
	"github.com/Asadganteng/ruang-iklim-scada/ws"
)

// LiveFeed owns the ordered, capacity-bounded buffer of readings the
// dashboard renders. Exactly one of the Start methods is called per
// activation; Stop tears the activation down and guarantees no buffer
// mutation afterwards.
type LiveFeed struct {
	mu       sync.Mutex
	buf      []entities.Reading
	capacity int

	clock *Clock
	log   *zap.SugaredLogger

	runMu   sync.Mutex
	running bool
	mode    string
	stop    chan struct{}
	done    chan struct{}
}

func NewLiveFeed(capacity int, clock *Clock, log *zap.SugaredLogger) *LiveFeed {
	return &LiveFeed{capacity: capacity, clock: clock, log: log}
}

// StartSynthetic begins generating one reading per tick near the baseline.
// The baseline is read through the provider on every tick, so setpoint edits
// shape future samples without clearing history. Generated readings are also
// published to the hub when one is given, so dashboard clients see the
// synthetic stream too.
func (f *LiveFeed) StartSynthetic(gen *Generator, baseline func() entities.Setpoint, tick time.Duration, hub *ws.Hub) {
	f.runMu.Lock()
	defer f.runMu.Unlock()
	if f.running {
		return
	}
	f.running = true
	f.setMode("synthetic")
	f.stop = make(chan struct{})
	f.done = make(chan struct{})

	go func() {
		defer close(f.done)
		t := time.NewTicker(tick)
		defer t.Stop()
		for {
			select {
			case <-f.stop:
				return
			case <-t.C:
				f.mu.Lock()
				var prev *entities.Reading
				if n := len(f.buf); n > 0 {
					prev = &f.buf[n-1]
				}
				r := gen.Next(baseline(), prev)
				f.slideLocked()
				f.buf = append(f.buf, r)
				f.mu.Unlock()
				if hub != nil {
					hub.Publish(r)
				}
			}
		}
	}()
}

// StartReal performs one historical load of the most recent bulkLimit
// readings and then appends readings pushed through the hub. The
// subscription is opened before the load so nothing inserted in between is
// missed; anything the load already covered is dropped by ID, so no reading
// is duplicated or lost across the handoff.
func (f *LiveFeed) StartReal(repo repositories.ReadingRepository, hub *ws.Hub, bulkLimit int) {
	f.runMu.Lock()
	defer f.runMu.Unlock()
	if f.running {
		return
	}
	f.running = true
	f.setMode("real")
	f.stop = make(chan struct{})
	f.done = make(chan struct{})

	sub := hub.Subscribe(256)

	go func() {
		defer close(f.done)
		defer sub.Close()

		var maxID uint
		rows, err := repo.RecentDesc(bulkLimit)
		if err != nil {
			// No retry: the buffer stays empty until the next activation.
			f.log.Warnw("historical load failed; feed starts empty", "error", err)
		} else {
			for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
				rows[i], rows[j] = rows[j], rows[i]
			}
			// The watermark is the max ID anywhere in the bulk result:
			// client-supplied timestamps mean the chronologically newest
			// row is not necessarily the highest ID.
			for i := range rows {
				rows[i].DisplayTime = f.clock.Display(rows[i].Timestamp)
				if rows[i].ID > maxID {
					maxID = rows[i].ID
				}
			}
			f.mu.Lock()
			f.buf = rows
			f.mu.Unlock()
		}

		for {
			select {
			case <-f.stop:
				return
			case r, ok := <-sub.C:
				if !ok {
					return
				}
				if r.ID <= maxID {
					continue
				}
				r.DisplayTime = f.clock.Display(r.Timestamp)
				f.mu.Lock()
				f.buf = append(f.buf, r)
				if len(f.buf) > f.capacity {
					copy(f.buf, f.buf[1:])
					f.buf = f.buf[:len(f.buf)-1]
				}
				f.mu.Unlock()
			}
		}
	}()
}

// Stop ends the activation. It blocks until the feed goroutine has exited,
// so no tick or pushed reading mutates the buffer after Stop returns.
func (f *LiveFeed) Stop() {
	f.runMu.Lock()
	defer f.runMu.Unlock()
	if !f.running {
		return
	}
	close(f.stop)
	<-f.done
	f.running = false
}

// Snapshot returns a copy of the buffer, chronologically ascending.
func (f *LiveFeed) Snapshot() []entities.Reading {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entities.Reading, len(f.buf))
	copy(out, f.buf)
	return out
}

func (f *LiveFeed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.buf)
}

// Stats reports the feed state for the stats endpoint.
func (f *LiveFeed) Stats() map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := map[string]interface{}{
		"mode":     f.mode,
		"length":   len(f.buf),
		"capacity": f.capacity,
	}
	if n := len(f.buf); n > 0 {
		stats["newest"] = f.buf[n-1].Timestamp
		stats["oldest"] = f.buf[0].Timestamp
	}
	return stats
}

func (f *LiveFeed) setMode(mode string) {
	f.mu.Lock()
	f.mode = mode
	f.mu.Unlock()
}

// slideLocked makes room for one more entry, dropping entries from the front
// so the buffer holds at most capacity-1 before the append. Caller holds mu.
func (f *LiveFeed) slideLocked() {
	if len(f.buf) < f.capacity {
		return
	}
	drop := len(f.buf) - f.capacity + 1
	f.buf = append(f.buf[:0], f.buf[drop:]...)
}
