package sse

import (
	"log/slog"
	"sync"
	"time"
)

// KeepAliveWriter is the part of *Writer the pinger needs.
type KeepAliveWriter interface {
	WriteKeepAlive() error
}

// TickerKeepAlive pings a generation stream on a fixed interval so proxies
// don't close it while the model is slow to produce its next fragment.
type TickerKeepAlive struct {
	interval time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

func NewTickerKeepAlive(interval time.Duration) *TickerKeepAlive {
	return &TickerKeepAlive{
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start runs the pinger until Stop is called or a write fails.
// The returned channel closes once the goroutine has exited.
func (k *TickerKeepAlive) Start(w KeepAliveWriter, logger *slog.Logger) <-chan struct{} {
	exited := make(chan struct{})
	ticker := time.NewTicker(k.interval)

	go func() {
		defer close(exited)
		defer ticker.Stop()

		for {
			select {
			case <-k.done:
				return
			case <-ticker.C:
				if err := w.WriteKeepAlive(); err != nil {
					logger.Debug("stream keep-alive stopped", "error", err)
					return
				}
			}
		}
	}()

	return exited
}

// Stop may be called more than once.
func (k *TickerKeepAlive) Stop() {
	k.stopOnce.Do(func() { close(k.done) })
}
