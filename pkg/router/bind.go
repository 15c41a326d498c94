package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"

	"github.com/gorilla/mux"
	"github.com/mitchellh/mapstructure"
	"github.com/socialgraph-lab/backend/pkg/errorx"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
)

// bind fills a request struct from, in order, the json body, the query string, the values of
// a multipart form and the path variables. Later sources override earlier ones.
func bind[T any](ctx context.Context) (*T, error) {
	var result T
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return &result, nil
	}

	data := map[string]any{}
	for key, values := range req.URL.Query() {
		if len(values) > 0 {
			data[key] = values[0]
		}
	}

	mediaType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(req.Body).Decode(&result); err != nil && !errors.Is(err, io.EOF) {
			return nil, errorx.New(errorx.BadRequest, "Invalid json body: %v", err)
		}

	case "multipart/form-data":
		maxSize := int64(xcontext.Configs(ctx).File.MaxSize)
		if err := req.ParseMultipartForm(maxSize); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid multipart form: %v", err)
		}

		for key, values := range req.MultipartForm.Value {
			if len(values) > 0 {
				data[key] = values[0]
			}
		}

	case "application/x-www-form-urlencoded":
		if err := req.ParseForm(); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid form: %v", err)
		}

		for key, values := range req.PostForm {
			if len(values) > 0 {
				data[key] = values[0]
			}
		}
	}

	for key, value := range mux.Vars(req) {
		data[key] = value
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &result,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(data); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid request: %v", err)
	}

	return &result, nil
}
