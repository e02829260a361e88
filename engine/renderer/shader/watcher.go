package shader

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-vk/engine/logger"
	"github.com/fsnotify/fsnotify"
)

// settleDelay coalesces the burst of events an editor produces for one save.
const settleDelay = 100 * time.Millisecond

// Watcher reports shader files in a directory that were written or created.
type Watcher struct {
	log     *logger.Logger
	watcher *fsnotify.Watcher
	changes chan string
	done    chan struct{}
	wg      sync.WaitGroup

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
}

// NewWatcher starts watching dir.
//
// Parameters:
//   - log: the logger for watch errors
//   - dir: the shader directory
//
// Returns:
//   - *Watcher: the running watcher; Close it when done
//   - error: an error if the directory cannot be watched
func NewWatcher(log *logger.Logger, dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}
	w := &Watcher{
		log:     log,
		watcher: fw,
		changes: make(chan string, 16),
		done:    make(chan struct{}),
		pending: make(map[string]*time.Timer),
	}
	w.wg.Add(1)
	go w.run()
	log.Info().Str("dir", dir).Msg("watching shaders")
	return w, nil
}

// Changes delivers the path of each changed shader file once its events have settled.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 && IsShaderFile(event.Name) {
				w.schedule(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("shader watch error")
		}
	}
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(settleDelay)
		return
	}
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		select {
		case w.changes <- path:
		case <-w.done:
		}
	})
}

// Close stops watching. Pending notifications are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, t := range w.pending {
		t.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
