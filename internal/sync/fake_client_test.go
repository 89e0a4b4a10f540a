package sync

import (
	"context"
	"io"
	"sync"

	"github.com/mirrorbox/mirrorbox/internal/blob"
)

// fakeBlobClient is an in-memory blob.IClient for exercising the sync core
// without a network. Optional per-key error hooks simulate failures.
type fakeBlobClient struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
	putCalls     map[string]int
	deleteCalls  map[string]int
	putErr       func(key string) error
	deleteErr    func(key string) error
}

func newFakeBlobClient() *fakeBlobClient {
	return &fakeBlobClient{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
		putCalls:     make(map[string]int),
		deleteCalls:  make(map[string]int),
	}
}

func (f *fakeBlobClient) PutObject(ctx context.Context, params *blob.PutObjectParams) (*blob.PutObjectResponse, error) {
	f.mu.Lock()
	f.putCalls[params.Key]++
	putErr := f.putErr
	f.mu.Unlock()

	if putErr != nil {
		if err := putErr(params.Key); err != nil {
			return nil, err
		}
	}

	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.objects[params.Key] = data
	f.contentTypes[params.Key] = params.ContentType
	f.mu.Unlock()

	return &blob.PutObjectResponse{Key: params.Key, Size: int64(len(data))}, nil
}

func (f *fakeBlobClient) DeleteObject(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	f.deleteCalls[key]++
	deleteErr := f.deleteErr
	f.mu.Unlock()

	if deleteErr != nil {
		if err := deleteErr(key); err != nil {
			return false, err
		}
	}

	f.mu.Lock()
	delete(f.objects, key)
	f.mu.Unlock()
	return true, nil
}

func (f *fakeBlobClient) ListObjects(ctx context.Context) ([]*blob.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	objects := make([]*blob.ObjectInfo, 0, len(f.objects))
	for key, data := range f.objects {
		objects = append(objects, &blob.ObjectInfo{Key: key, Size: int64(len(data))})
	}
	return objects, nil
}

func (f *fakeBlobClient) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := make([]string, 0, len(f.objects))
	for key := range f.objects {
		keys = append(keys, key)
	}
	return keys
}

func (f *fakeBlobClient) object(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	return data, ok
}

func (f *fakeBlobClient) putCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.putCalls[key]
}

func (f *fakeBlobClient) deleteCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteCalls[key]
}

var _ blob.IClient = (*fakeBlobClient)(nil)
