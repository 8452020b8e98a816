package skills

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"resumescreen/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// VocabularyWatcher watches a vocabulary file and hot-swaps the term list
// when the file changes. Scoring requests keep reading consistent snapshots
// while a reload is in flight.
type VocabularyWatcher struct {
	mu sync.Mutex

	path  string
	vocab *Vocabulary

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan chan struct{}
	logger   *errors.Logger
	running  bool
	onReload func()
}

// NewVocabularyWatcher creates a watcher for the given vocabulary file.
func NewVocabularyWatcher(path string, vocab *Vocabulary, debounceDelay time.Duration, logger *errors.Logger) *VocabularyWatcher {
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}

	return &VocabularyWatcher{
		path:          path,
		vocab:         vocab,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		logger:        logger,
	}
}

// OnReload registers a callback invoked after each successful reload.
// Must be called before Start.
func (vw *VocabularyWatcher) OnReload(fn func()) {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	vw.onReload = fn
}

// Start begins watching the vocabulary file for changes.
func (vw *VocabularyWatcher) Start() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()

	if vw.running {
		return fmt.Errorf("vocabulary watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the parent directory: editors often replace files via rename,
	// which drops a direct file watch.
	if err := watcher.Add(filepath.Dir(vw.path)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil && vw.logger != nil {
			vw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
		return fmt.Errorf("failed to watch vocabulary directory: %w", err)
	}

	vw.fsWatcher = watcher
	vw.running = true
	go vw.watchLoop()

	if vw.logger != nil {
		vw.logger.Info("Vocabulary file watcher started",
			"file", vw.path,
			"debounce_delay", vw.debounceDelay)
	}
	return nil
}

// Stop stops the watcher. Safe to call on a watcher that never started.
func (vw *VocabularyWatcher) Stop() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()

	if !vw.running {
		return nil
	}

	close(vw.stopChan)
	if vw.debounceTimer != nil {
		vw.debounceTimer.Stop()
	}
	vw.running = false

	return vw.fsWatcher.Close()
}

func (vw *VocabularyWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-vw.fsWatcher.Events:
			if !ok {
				return
			}
			vw.handleEvent(event)

		case err, ok := <-vw.fsWatcher.Errors:
			if !ok {
				return
			}
			if vw.logger != nil {
				vw.logger.LogError(err, "Vocabulary watcher error", "file", vw.path)
			}

		case <-vw.stopChan:
			return
		}
	}
}

// handleEvent debounces bursts of write/rename events into a single reload.
func (vw *VocabularyWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != filepath.Clean(vw.path) {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	vw.mu.Lock()
	defer vw.mu.Unlock()

	if vw.debounceTimer != nil {
		vw.debounceTimer.Stop()
	}
	vw.debounceTimer = time.AfterFunc(vw.debounceDelay, vw.reload)
}

func (vw *VocabularyWatcher) reload() {
	loaded, err := LoadVocabulary(vw.path)
	if err != nil {
		// Keep the previous vocabulary; a half-written file must not wipe it.
		if vw.logger != nil {
			vw.logger.LogError(err, "Vocabulary reload failed, keeping previous terms",
				"file", vw.path)
		}
		return
	}

	vw.vocab.Replace(loaded.Terms())
	if vw.logger != nil {
		vw.logger.Info("Vocabulary reloaded", "file", vw.path, "terms", vw.vocab.Len())
	}
	if vw.onReload != nil {
		vw.onReload()
	}
}
