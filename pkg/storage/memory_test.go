package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_memoryStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	resp, err := s.Upload(ctx, &UploadObject{
		Bucket:   "media",
		Prefix:   "post",
		FileName: "a.png",
		Mime:     "image/png",
		Data:     []byte{1, 2, 3},
	})
	require.NoError(t, err)

	data, ok := s.Get(resp.Url)
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3}, data)

	deleted, err := s.Delete(ctx, resp.Url)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = s.Delete(ctx, resp.Url)
	require.NoError(t, err)
	require.False(t, deleted)

	deleted, err = s.Delete(ctx, "https://cdn.example.com/a.png")
	require.NoError(t, err)
	require.False(t, deleted)
}
