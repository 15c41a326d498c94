package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/socialgraph-lab/backend/pkg/errorx"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
)

const defaultMessage = "Success"

// ResponseMessage is implemented by responses which carry their own human-readable message.
type ResponseMessage interface {
	ResponseMessage() string
}

type response struct {
	Code    int64  `json:"code"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	message := defaultMessage
	if m, ok := data.(ResponseMessage); ok {
		message = m.ResponseMessage()
	}

	return response{Code: 0, Message: message, Data: data}
}

func newErrorResponse(err error) (int, response) {
	errx := errorx.Error{}
	if !errors.As(err, &errx) {
		errx = errorx.Unknown
	}

	return errorx.HTTPStatus(errx.Code), response{Code: int64(errx.Code), Error: errx.Message}
}

func writeResponse(ctx context.Context, w http.ResponseWriter) {
	status, resp := http.StatusOK, response{}
	if err := xcontext.Error(ctx); err != nil {
		status, resp = newErrorResponse(err)
	} else {
		resp = newResponse(xcontext.Response(ctx))
	}

	if err := WriteJSON(w, status, resp); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}

func WriteJSON(w http.ResponseWriter, status int, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(b)
	return err
}
