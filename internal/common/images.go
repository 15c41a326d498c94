package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"github.com/nfnt/resize"
	"github.com/socialgraph-lab/backend/pkg/errorx"
	"github.com/socialgraph-lab/backend/pkg/storage"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
)

const (
	PostImagePrefix       = "posts"
	CommunityAvatarPrefix = "communities"
)

// ProcessImage uploads the image in the form field key of the current request, downscaled to
// the configured width. It returns nil if the request carries no such file.
func ProcessImage(
	ctx context.Context, fileStorage storage.Storage, key, prefix string,
) (*storage.UploadResponse, error) {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return nil, nil
	}

	cfg := xcontext.Configs(ctx).File
	if req.MultipartForm == nil {
		if err := req.ParseMultipartForm(int64(cfg.MaxSize)); err != nil {
			if errors.Is(err, http.ErrNotMultipart) {
				return nil, nil
			}

			return nil, errorx.New(errorx.BadRequest, "Invalid multipart form")
		}
	}

	file, header, err := req.FormFile(key)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}

		return nil, errorx.New(errorx.BadRequest, "Error retrieving the file")
	}
	defer file.Close()

	if cfg.MaxSize > 0 && header.Size > int64(cfg.MaxSize) {
		return nil, errorx.New(errorx.BadRequest, "File too large (max %d bytes)", cfg.MaxSize)
	}

	mime := header.Header.Get("Content-Type")
	img, err := decodeImg(mime, file)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid image: %v", err)
	}

	if cfg.MaxImageWidth > 0 && img.Bounds().Dx() > cfg.MaxImageWidth {
		img = resize.Resize(uint(cfg.MaxImageWidth), 0, img, resize.Lanczos3)
	}

	b, err := encodeImg(mime, img)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot encode image: %v", err)
		return nil, errorx.Unknown
	}

	resp, err := fileStorage.Upload(ctx, &storage.UploadObject{
		Bucket:   xcontext.Configs(ctx).Storage.Bucket,
		Prefix:   prefix,
		FileName: header.Filename,
		Mime:     mime,
		Data:     b,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload image: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot upload image")
	}

	return resp, nil
}

// DeleteImage removes an image which is no longer referenced. Failures are only logged, the
// owning record is already gone.
func DeleteImage(ctx context.Context, fileStorage storage.Storage, url string) {
	if url == "" {
		return
	}

	if _, err := fileStorage.Delete(ctx, url); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot delete image %s: %v", url, err)
	}
}

func decodeImg(mime string, data io.Reader) (img image.Image, err error) {
	switch mime {
	case "image/jpeg":
		img, err = jpeg.Decode(data)
	case "image/png", "application/octet-stream":
		img, err = png.Decode(data)
	case "image/gif":
		img, err = gif.Decode(data)
	default:
		return nil, fmt.Errorf("only jpeg, gif or png is accepted")
	}
	return img, err
}

func encodeImg(mime string, img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)

	var err error
	switch mime {
	case "image/jpeg":
		err = jpeg.Encode(buf, img, nil)
	case "image/png", "application/octet-stream":
		err = png.Encode(buf, img)
	case "image/gif":
		err = gif.Encode(buf, img, nil)
	default:
		return nil, fmt.Errorf("only jpeg, gif or png is accepted")
	}
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
