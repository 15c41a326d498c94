package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/mux"
	"github.com/socialgraph-lab/backend/internal/common"
	"github.com/socialgraph-lab/backend/pkg/errorx"
	"github.com/socialgraph-lab/backend/pkg/router"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
)

func WithStartTime() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		return xcontext.WithStartTime(ctx, time.Now()), nil
	}
}

func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		startTime := xcontext.StartTime(ctx)

		req := xcontext.HTTPRequest(ctx)
		code := 0
		if err := xcontext.Error(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				code = int(errx.Code)
			} else {
				code = -1
			}
		}

		// Use the route template so that ids do not explode the label cardinality.
		path := req.URL.Path
		if route := mux.CurrentRoute(req); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}

		common.IncCounter(common.HTTPRequestTotal, path, fmt.Sprint(code))
		if histogram, ok := common.PromHistograms[common.HTTPRequestDurationSeconds]; ok && !startTime.IsZero() {
			histogram.WithLabelValues(path, fmt.Sprint(code)).Observe(time.Since(startTime).Seconds())
		}
	}
}
