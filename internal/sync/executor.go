package sync

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mirrorbox/mirrorbox/internal/blob"
	"github.com/mirrorbox/mirrorbox/internal/utils"
)

const DefaultBackoffBase = 200 * time.Millisecond

// Executor performs one upload or delete against the remote store, retrying
// transient failures with exponential backoff. A key that exhausts its retry
// budget is logged and abandoned; it never takes the process down.
type Executor struct {
	client      blob.IClient
	rootDir     string
	retryLimit  int
	backoffBase time.Duration
}

func NewExecutor(client blob.IClient, rootDir string, retryLimit int) *Executor {
	return &Executor{
		client:      client,
		rootDir:     rootDir,
		retryLimit:  retryLimit,
		backoffBase: DefaultBackoffBase,
	}
}

// Run executes op for path until terminal success or retry exhaustion.
func (e *Executor) Run(ctx context.Context, op OpType, path string) {
	key, err := RemoteKey(path, e.rootDir)
	if err != nil {
		slog.Error("sync", "op", op, "path", path, "error", err)
		return
	}

	for attempt := 1; ; attempt++ {
		err := e.attempt(ctx, op, key, path)
		if err == nil {
			slog.Info("sync", "op", op, "key", key)
			return
		}

		if attempt >= e.retryLimit {
			slog.Error("sync abandoned", "op", op, "key", key, "attempts", attempt, "error", err)
			return
		}

		// backoff counts from the moment of failure
		delay := e.backoffBase << attempt
		slog.Warn("sync retrying", "op", op, "key", key, "attempt", attempt, "delay", delay, "error", err)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}
	}
}

func (e *Executor) attempt(ctx context.Context, op OpType, key string, path string) error {
	switch op {
	case OpUpload:
		// A file deleted between the event and now fails the read; it may
		// reappear before the next attempt, so it retries like anything else.
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		_, err = e.client.PutObject(ctx, &blob.PutObjectParams{
			Key:         key,
			Size:        int64(len(data)),
			ContentType: utils.DetectContentType(path),
			Body:        bytes.NewReader(data),
		})
		return err
	case OpDelete:
		_, err := e.client.DeleteObject(ctx, key)
		return err
	default:
		return fmt.Errorf("unknown op %d", op)
	}
}
