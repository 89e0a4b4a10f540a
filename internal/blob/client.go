package blob

import (
	"context"
	"io"
	"time"
)

type IClient interface {
	PutObject(ctx context.Context, params *PutObjectParams) (*PutObjectResponse, error)
	DeleteObject(ctx context.Context, key string) (bool, error)
	ListObjects(ctx context.Context) ([]*ObjectInfo, error)
}

type PutObjectParams struct {
	Key         string
	Size        int64
	ContentType string
	Body        io.Reader
}

type PutObjectResponse struct {
	Key          string
	ETag         string
	Size         int64
	LastModified time.Time
}

type ObjectInfo struct {
	Key          string
	ETag         string
	Size         int64
	LastModified string
}
