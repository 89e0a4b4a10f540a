package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rjeczalik/notify"
	"golang.org/x/sync/errgroup"

	"github.com/mirrorbox/mirrorbox/internal/blob"
	"github.com/mirrorbox/mirrorbox/internal/config"
	"github.com/mirrorbox/mirrorbox/internal/utils"
)

type State int32

var stateNames = []string{
	"Initializing",
	"InitialSyncing",
	"Watching",
	"ShuttingDown",
	"Stopped",
}

const (
	StateInitializing State = iota
	StateInitialSyncing
	StateWatching
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	return stateNames[s]
}

// Engine wires walker, debouncer, dispatcher and executor into the full flow:
// one reconciliation pass over the root, then watch-driven incremental sync.
type Engine struct {
	cfg        *config.Config
	dispatcher *Dispatcher
	executor   *Executor
	debouncer  *Debouncer
	watcher    *FileWatcher
	state      atomic.Int32
	stopOnce   sync.Once
}

func NewEngine(cfg *config.Config, client blob.IClient) *Engine {
	e := &Engine{
		cfg:        cfg,
		dispatcher: NewDispatcher(cfg.Concurrency),
		executor:   NewExecutor(client, cfg.RootDir, cfg.RetryLimit),
		watcher:    NewFileWatcher(cfg.RootDir),
	}
	e.debouncer = NewDebouncer(cfg.Debounce, e.enqueue)
	return e
}

func (e *Engine) State() State {
	return State(e.state.Load())
}

// Start runs the engine until ctx is cancelled. Only an unreadable watch root
// or a failed watch subscription is fatal; per-key failures stay contained in
// the executor.
func (e *Engine) Start(ctx context.Context) error {
	e.setState(StateInitializing)
	if !utils.DirExists(e.cfg.RootDir) {
		return fmt.Errorf("watch root %q is not a directory", e.cfg.RootDir)
	}
	if _, err := os.ReadDir(e.cfg.RootDir); err != nil {
		return fmt.Errorf("watch root %q: %w", e.cfg.RootDir, err)
	}

	e.dispatcher.Start(ctx)

	// Initial pass bypasses the debouncer, there are no live bursts yet.
	e.setState(StateInitialSyncing)
	slog.Info("initial sync start", "root", e.cfg.RootDir, "ext", e.cfg.Extension)
	var count int
	Walk(e.cfg.RootDir, e.cfg.Extension, func(path string) {
		count++
		e.enqueue(OpUpload, path)
	})
	e.dispatcher.Wait()
	slog.Info("initial sync done", "files", count)

	if err := e.watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	e.setState(StateWatching)
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		for {
			select {
			case <-egCtx.Done():
				return nil
			case event, ok := <-e.watcher.Events():
				if !ok {
					return nil
				}
				e.handleEvent(event)
			}
		}
	})

	eg.Go(func() error {
		<-egCtx.Done()
		slog.Info("received shutdown signal, stopping sync engine")
		e.Stop()
		return nil
	})

	err := eg.Wait()
	e.setState(StateStopped)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Stop shuts the engine down best-effort: in-flight operations and armed
// debounce timers are not drained.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		e.setState(StateShuttingDown)
		e.watcher.Stop()
		e.debouncer.Stop()
		e.dispatcher.Stop()
	})
}

func (e *Engine) enqueue(op OpType, path string) {
	e.dispatcher.Dispatch(func(ctx context.Context) {
		e.executor.Run(ctx, op, path)
	})
}

func (e *Engine) handleEvent(event notify.EventInfo) {
	path := event.Path()
	if !strings.EqualFold(filepath.Ext(path), e.cfg.Extension) {
		return
	}

	switch event.Event() {
	case notify.Remove, notify.Rename:
		// notify reports a rename against the old path
		e.debouncer.Notify(OpDelete, path)
	default:
		// Create fires for directories too; only regular files are mirrored
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return
		}
		e.debouncer.Notify(OpUpload, path)
	}
}

func (e *Engine) setState(s State) {
	e.state.Store(int32(s))
	slog.Debug("sync engine", "state", s)
}
