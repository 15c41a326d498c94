package storage

import "context"

type Storage interface {
	Upload(context.Context, *UploadObject) (*UploadResponse, error)

	// Delete removes the object behind url. It returns false if url does not belong to this
	// storage or the object does not exist.
	Delete(ctx context.Context, url string) (bool, error)
}

type UploadObject struct {
	Bucket   string
	Prefix   string
	FileName string
	Mime     string
	Data     []byte
}

type UploadResponse struct {
	Url      string
	FileName string
}
