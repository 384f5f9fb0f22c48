// Package watch ingests files as they appear or change in a directory.
package watch

import (
	"crypto/sha256"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driving"
	"github.com/custodia-labs/recall/internal/logger"
)

// DefaultDebounce is how long a path must be quiet before it is ingested.
const DefaultDebounce = 500 * time.Millisecond

// Files reads supported files into plain text.
type Files interface {
	Supports(path string) bool
	ReadFile(path string) (string, error)
}

// Result reports the outcome of ingesting one file.
type Result struct {
	Path   string
	Ingest *domain.IngestResult
	Err    error
}

// Config configures a Watcher.
type Config struct {
	// Dir is the directory to watch. Subdirectories are not watched.
	Dir string

	// Debounce overrides DefaultDebounce.
	Debounce time.Duration

	// OnResult is called after every ingestion attempt. Optional.
	OnResult func(Result)
}

// Watcher ingests supported files created or written in a directory.
type Watcher struct {
	dir      string
	debounce time.Duration
	onResult func(Result)
	ingest   driving.IngestService
	files    Files

	mu      sync.Mutex
	gen     uint64
	pending map[string]pendingFile
	ready   chan string
	done    chan struct{}

	// ingested maps a path to the digest of the text last stored for it.
	// Only the Run goroutine touches it.
	ingested map[string][sha256.Size]byte
}

type pendingFile struct {
	timer *time.Timer
	gen   uint64
}

// New creates a watcher for cfg.Dir.
func New(cfg Config, ingest driving.IngestService, files Files) (*Watcher, error) {
	if ingest == nil || files == nil {
		return nil, errors.New("watch: ingest service and file reader are required")
	}

	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch: %s is not a directory", cfg.Dir)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		dir:      cfg.Dir,
		debounce: debounce,
		onResult: cfg.OnResult,
		ingest:   ingest,
		files:    files,
		pending:  make(map[string]pendingFile),
		ingested: make(map[string][sha256.Size]byte),
		ready:    make(chan string, 64),
		done:     make(chan struct{}),
	}, nil
}

// Run watches until ctx is cancelled. Files are ingested one at a time.
// Run may be called only once.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.done)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	logger.Info("Watching %s", w.dir)

	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if path, ok := w.handleFsEvent(event); ok {
				w.schedule(path)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case path := <-w.ready:
			w.ingestFile(ctx, path)
		}
	}
}

// handleFsEvent returns the path to ingest for event, if any. Only creates
// and writes of supported, visible regular files count.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return "", false
	}
	if !w.files.Supports(event.Name) {
		return "", false
	}

	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, true
}

// schedule restarts the quiet period for path. Each call arms a fresh
// timer; a timer from an earlier call that already fired sees a stale
// generation in fire and drops the path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if p, ok := w.pending[path]; ok {
		p.timer.Stop()
	}
	w.gen++
	gen := w.gen
	w.pending[path] = pendingFile{
		gen:   gen,
		timer: time.AfterFunc(w.debounce, func() { w.fire(path, gen) }),
	}
}

// fire hands path to Run unless it was rescheduled after gen was armed.
func (w *Watcher) fire(path string, gen uint64) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if !ok || p.gen != gen {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	w.mu.Unlock()

	select {
	case w.ready <- path:
	case <-w.done:
	}
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
}

// ingestFile stores path as a note. A file whose text is unchanged since
// it was last stored is skipped, so saving twice does not duplicate chunks.
func (w *Watcher) ingestFile(ctx context.Context, path string) {
	res := Result{Path: path}

	text, err := w.files.ReadFile(path)
	if err != nil {
		res.Err = err
	} else {
		sum := sha256.Sum256([]byte(text))
		if prev, ok := w.ingested[path]; ok && prev == sum {
			logger.Debug("Unchanged %s, skipping", path)
			return
		}
		res.Ingest, res.Err = w.ingest.Ingest(ctx, domain.Note{Text: text, Origin: path})
		if res.Err == nil {
			w.ingested[path] = sum
		}
	}

	if res.Err != nil {
		logger.Warn("Skipped %s: %v", path, res.Err)
	} else {
		logger.Info("Ingested %s (%d chunks)", path, res.Ingest.Chunks)
	}

	if w.onResult != nil {
		w.onResult(res)
	}
}
