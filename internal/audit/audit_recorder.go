package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Recorder buffers audit entries and writes them from a background
// goroutine. Recording never blocks a request: when the buffer is full
// the entry is dropped with a warning.
type Recorder struct {
	repo    Repository
	logger  *zap.Logger
	entries chan AuditLog
	wg      sync.WaitGroup
	stop    chan struct{}
	once    sync.Once
}

func NewRecorder(repo Repository, bufferSize int, logger ...*zap.Logger) *Recorder {
	l := zap.L().Named("audit.recorder")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	if bufferSize <= 0 {
		bufferSize = 256
	}
	r := &Recorder{
		repo:    repo,
		logger:  l,
		entries: make(chan AuditLog, bufferSize),
		stop:    make(chan struct{}),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// Record enqueues an entry without blocking.
func (r *Recorder) Record(entry AuditLog) {
	select {
	case r.entries <- entry:
	default:
		r.logger.Warn("audit buffer full, dropping entry",
			zap.String("action", entry.Action),
			zap.String("path", entry.Path),
		)
	}
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for {
		select {
		case entry := <-r.entries:
			r.persist(entry)
		case <-r.stop:
			// drain what is already buffered, then exit
			for {
				select {
				case entry := <-r.entries:
					r.persist(entry)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) persist(entry AuditLog) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.repo.Create(ctx, &entry); err != nil {
		r.logger.Warn("failed to persist audit entry",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}

// Close stops the background writer after draining buffered entries.
func (r *Recorder) Close() {
	r.once.Do(func() {
		close(r.stop)
		r.wg.Wait()
	})
}
