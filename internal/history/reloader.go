package history

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seuros/hirefunnel/internal/logging"
)

// Reloader serves a trend read from a file and re-reads the file on a fixed
// interval. A bad edit keeps the last good trend.
type Reloader struct {
	path     string
	interval time.Duration

	mu       sync.RWMutex
	months   Static
	modTime  time.Time
	loadedAt time.Time

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewReloader loads path once. The initial load must succeed.
func NewReloader(path string, interval time.Duration) (*Reloader, error) {
	r := &Reloader{
		path:     path,
		interval: interval,
		stopChan: make(chan struct{}),
	}
	if _, err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Months returns the current trend.
func (r *Reloader) Months() []Month {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.months.Months()
}

// LoadedAt is when the file was last read successfully.
func (r *Reloader) LoadedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadedAt
}

// Start begins periodic reloads.
func (r *Reloader) Start() {
	logging.L().Info("watching history file",
		zap.String("path", r.path),
		zap.Duration("interval", r.interval))
	go r.schedule()
}

// Stop ends periodic reloads. Safe to call more than once.
func (r *Reloader) Stop() {
	r.stopOnce.Do(func() { close(r.stopChan) })
}

func (r *Reloader) schedule() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := r.Reload(); err != nil {
				logging.L().Warn("failed to reload history file, keeping previous data",
					zap.String("path", r.path),
					zap.Error(err))
			}
		case <-r.stopChan:
			return
		}
	}
}

// Reload re-reads the file if its modification time changed and reports
// whether the trend was replaced.
func (r *Reloader) Reload() (bool, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		return false, err
	}

	r.mu.RLock()
	unchanged := !r.loadedAt.IsZero() && info.ModTime().Equal(r.modTime)
	r.mu.RUnlock()
	if unchanged {
		return false, nil
	}

	months, err := LoadFile(r.path)
	if err != nil {
		return false, err
	}

	r.mu.Lock()
	r.months = months
	r.modTime = info.ModTime()
	r.loadedAt = time.Now()
	r.mu.Unlock()

	logging.L().Info("loaded history file",
		zap.String("path", r.path),
		zap.Int("months", len(months)))
	return true, nil
}
