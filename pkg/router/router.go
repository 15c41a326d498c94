package router

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/socialgraph-lab/backend/config"
	"github.com/socialgraph-lab/backend/pkg/logger"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before or after the handler. A non-nil error stops the remaining
// middlewares and the handler, and is sent to the client.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response was written, whether the request failed or not.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux *mux.Router

	cfg    config.Configs
	logger logger.Logger
	db     *gorm.DB

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	return &Router{
		mux:    mux.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}
}

// Branch returns a router sharing the routes of r. Middlewares added to the branch do not
// affect r.
func (r *Router) Branch() *Router {
	clone := *r
	clone.befores = append([]MiddlewareFunc(nil), r.befores...)
	clone.afters = append([]MiddlewareFunc(nil), r.afters...)
	clone.closers = append([]CloserFunc(nil), r.closers...)
	return &clone
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Handler(cfg config.APIServerConfigs) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length", "Accept-Encoding"},
		AllowCredentials: true,
	}).Handler(r.mux)
}

func GET[Request, Response any](router *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(router, http.MethodGet, pattern, handler)
}

func POST[Request, Response any](router *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(router, http.MethodPost, pattern, handler)
}

func PATCH[Request, Response any](router *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(router, http.MethodPatch, pattern, handler)
}

func DELETE[Request, Response any](router *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(router, http.MethodDelete, pattern, handler)
}

func route[Request, Response any](
	router *Router, method, pattern string, handler HandlerFunc[Request, Response],
) {
	befores := append([]MiddlewareFunc(nil), router.befores...)
	afters := append([]MiddlewareFunc(nil), router.afters...)
	closers := append([]CloserFunc(nil), router.closers...)

	router.mux.HandleFunc(pattern, func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		ctx = xcontext.WithConfigs(ctx, router.cfg)
		ctx = xcontext.WithLogger(ctx, router.logger)
		ctx = xcontext.WithDB(ctx, router.db)
		ctx = xcontext.WithHTTPRequest(ctx, req)
		ctx = xcontext.WithHTTPWriter(ctx, w)

		if timeout := router.cfg.ApiServer.RequestTimeout; timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		ctx = serve(ctx, befores, afters, handler)
		writeResponse(ctx, w)

		for _, closer := range closers {
			closer(ctx)
		}
	}).Methods(method)
}

func serve[Request, Response any](
	ctx context.Context,
	befores, afters []MiddlewareFunc,
	handler HandlerFunc[Request, Response],
) context.Context {
	var err error
	for _, before := range befores {
		if ctx, err = runMiddleware(ctx, before); err != nil {
			return xcontext.WithError(ctx, err)
		}
	}

	req, err := bind[Request](ctx)
	if err != nil {
		return xcontext.WithError(ctx, err)
	}

	resp, err := handler(ctx, req)
	if err != nil {
		return xcontext.WithError(ctx, err)
	}
	ctx = xcontext.WithResponse(ctx, resp)

	for _, after := range afters {
		if ctx, err = runMiddleware(ctx, after); err != nil {
			return xcontext.WithError(ctx, err)
		}
	}

	return ctx
}

func runMiddleware(ctx context.Context, middleware MiddlewareFunc) (context.Context, error) {
	newCtx, err := middleware(ctx)
	if err != nil {
		return ctx, err
	}

	if newCtx == nil {
		return ctx, nil
	}

	return newCtx, nil
}
