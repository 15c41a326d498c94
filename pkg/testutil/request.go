package testutil

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/socialgraph-lab/backend/pkg/xcontext"
)

// PNGImage returns an encoded png of the given size.
func PNGImage(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		panic(err)
	}

	return buf.Bytes()
}

// WithMultipartFile attaches a multipart request carrying data in the form field key to ctx.
func WithMultipartFile(ctx context.Context, key, filename, mime string, data []byte) context.Context {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+key+`"; filename="`+filename+`"`)
	header.Set("Content-Type", mime)
	part, err := writer.CreatePart(header)
	if err != nil {
		panic(err)
	}

	if _, err := part.Write(data); err != nil {
		panic(err)
	}

	if err := writer.Close(); err != nil {
		panic(err)
	}

	req, err := http.NewRequest(http.MethodPost, "/", body)
	if err != nil {
		panic(err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return xcontext.WithHTTPRequest(ctx, req)
}
