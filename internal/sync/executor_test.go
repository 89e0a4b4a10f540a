package sync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(t *testing.T, client *fakeBlobClient, root string, retryLimit int) *Executor {
	t.Helper()
	e := NewExecutor(client, root, retryLimit)
	e.backoffBase = time.Millisecond
	return e
}

func TestExecutor_UploadSuccess(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "sub", "doc.pdf")
	writeFile(t, path, "hello")

	client := newFakeBlobClient()
	e := newTestExecutor(t, client, root, 3)

	e.Run(context.Background(), OpUpload, path)

	data, ok := client.object("sub/doc.pdf")
	require.True(t, ok)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, 1, client.putCount("sub/doc.pdf"))
	assert.Contains(t, client.contentTypes["sub/doc.pdf"], "application/pdf")
}

func TestExecutor_DeleteSuccess(t *testing.T) {
	root := t.TempDir()
	client := newFakeBlobClient()
	client.objects["gone.pdf"] = []byte("x")

	e := newTestExecutor(t, client, root, 3)
	e.Run(context.Background(), OpDelete, filepath.Join(root, "gone.pdf"))

	_, ok := client.object("gone.pdf")
	assert.False(t, ok)
	assert.Equal(t, 1, client.deleteCount("gone.pdf"))
}

func TestExecutor_RetriesUpToLimitThenAbandons(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "doc.pdf")
	writeFile(t, path, "x")

	client := newFakeBlobClient()
	client.putErr = func(key string) error {
		return errors.New("simulated network failure")
	}

	e := newTestExecutor(t, client, root, 3)

	// must return normally, abandonment never panics or propagates
	e.Run(context.Background(), OpUpload, path)

	assert.Equal(t, 3, client.putCount("doc.pdf"))
	_, ok := client.object("doc.pdf")
	assert.False(t, ok)
}

func TestExecutor_BackoffDoublesPerAttempt(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "doc.pdf")
	writeFile(t, path, "x")

	client := newFakeBlobClient()
	client.putErr = func(key string) error {
		return errors.New("down")
	}

	e := newTestExecutor(t, client, root, 3)
	e.backoffBase = 10 * time.Millisecond

	start := time.Now()
	e.Run(context.Background(), OpUpload, path)
	elapsed := time.Since(start)

	// waits of base*2 and base*4 between the three attempts
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
}

func TestExecutor_RecoversAfterTransientFailure(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "doc.pdf")
	writeFile(t, path, "eventually")

	failures := 2
	client := newFakeBlobClient()
	client.putErr = func(key string) error {
		if failures > 0 {
			failures--
			return errors.New("flaky")
		}
		return nil
	}

	e := newTestExecutor(t, client, root, 3)
	e.Run(context.Background(), OpUpload, path)

	data, ok := client.object("doc.pdf")
	require.True(t, ok)
	assert.Equal(t, "eventually", string(data))
	assert.Equal(t, 3, client.putCount("doc.pdf"))
}

func TestExecutor_MissingFileRetriesLikeAnyFailure(t *testing.T) {
	root := t.TempDir()
	client := newFakeBlobClient()

	e := newTestExecutor(t, client, root, 3)
	e.Run(context.Background(), OpUpload, filepath.Join(root, "vanished.pdf"))

	// read fails before the store is ever reached
	assert.Equal(t, 0, client.putCount("vanished.pdf"))
	assert.Empty(t, client.keys())
}

func TestExecutor_MissingFileReappearsBeforeRetry(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "late.pdf")
	client := newFakeBlobClient()

	e := newTestExecutor(t, client, root, 3)
	e.backoffBase = 20 * time.Millisecond

	go func() {
		time.Sleep(10 * time.Millisecond)
		os.WriteFile(path, []byte("here now"), 0o644)
	}()

	e.Run(context.Background(), OpUpload, path)

	data, ok := client.object("late.pdf")
	require.True(t, ok)
	assert.Equal(t, "here now", string(data))
}

func TestExecutor_PathOutsideRootIsTerminal(t *testing.T) {
	root := t.TempDir()
	client := newFakeBlobClient()

	e := newTestExecutor(t, client, root, 3)
	e.Run(context.Background(), OpUpload, filepath.Join(t.TempDir(), "outside.pdf"))

	assert.Empty(t, client.keys())
}
