package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync"
)

const memoryScheme = "memory://"

// memoryStorage keeps objects in process memory. It backs local runs without an object
// store.
type memoryStorage struct {
	objects *xsync.MapOf[string, []byte]
}

func NewMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: xsync.NewMapOf[[]byte]()}
}

func (s *memoryStorage) Upload(ctx context.Context, object *UploadObject) (*UploadResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("%s/%s-%s", object.Prefix, uuid.NewString(), object.FileName)
	url := fmt.Sprintf("%s%s/%s", memoryScheme, object.Bucket, fileName)
	s.objects.Store(url, object.Data)

	return &UploadResponse{Url: url, FileName: fileName}, nil
}

func (s *memoryStorage) Delete(ctx context.Context, url string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if !strings.HasPrefix(url, memoryScheme) {
		return false, nil
	}

	_, ok := s.objects.LoadAndDelete(url)
	return ok, nil
}

// Get returns the content of an uploaded object.
func (s *memoryStorage) Get(url string) ([]byte, bool) {
	return s.objects.Load(url)
}
