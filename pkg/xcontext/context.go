package xcontext

import (
	"context"
	"net/http"
	"time"

	"github.com/socialgraph-lab/backend/config"
	"github.com/socialgraph-lab/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey       struct{}
	loggerKey        struct{}
	dbKey            struct{}
	dbTxKey          struct{}
	requestUserIDKey struct{}
	httpRequestKey   struct{}
	httpWriterKey    struct{}
	errorKey         struct{}
	responseKey      struct{}
	startTimeKey     struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, _ := ctx.Value(configsKey{}).(config.Configs)
	return cfg
}

func WithLogger(ctx context.Context, logger logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		return logger.NewLogger(logger.INFO)
	}

	return l
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the database bound to ctx. The returned session carries ctx, so every query is
// cancelled together with the request.
func DB(ctx context.Context) *gorm.DB {
	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok || db == nil {
		return nil
	}

	return db.WithContext(ctx)
}

type dbTransaction struct {
	tx     *gorm.DB
	parent *gorm.DB
	done   bool
}

// WithDBTransaction begins a transaction on the database of ctx. Repositories called with the
// returned context run inside it until WithCommitDBTransaction or WithRollbackDBTransaction.
func WithDBTransaction(ctx context.Context) context.Context {
	parent, _ := ctx.Value(dbKey{}).(*gorm.DB)
	if parent == nil {
		return ctx
	}

	tx := parent.WithContext(ctx).Begin()
	ctx = context.WithValue(ctx, dbTxKey{}, &dbTransaction{tx: tx, parent: parent})
	return WithDB(ctx, tx)
}

// WithCommitDBTransaction commits the transaction of ctx and returns a context bound to the
// database again.
func WithCommitDBTransaction(ctx context.Context) (context.Context, error) {
	t, ok := ctx.Value(dbTxKey{}).(*dbTransaction)
	if !ok || t.done {
		return ctx, nil
	}

	t.done = true
	err := t.tx.Commit().Error
	return WithDB(ctx, t.parent), err
}

// WithRollbackDBTransaction is a no-op once the transaction was committed.
func WithRollbackDBTransaction(ctx context.Context) {
	t, ok := ctx.Value(dbTxKey{}).(*dbTransaction)
	if !ok || t.done {
		return
	}

	t.done = true
	t.tx.Rollback()
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestUserIDKey{}, id)
}

// RequestUserID returns an empty string for anonymous requests.
func RequestUserID(ctx context.Context) string {
	id, _ := ctx.Value(requestUserIDKey{}).(string)
	return id
}

func WithHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, req)
}

func HTTPRequest(ctx context.Context) *http.Request {
	req, _ := ctx.Value(httpRequestKey{}).(*http.Request)
	return req
}

func WithHTTPWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, httpWriterKey{}, w)
}

func HTTPWriter(ctx context.Context) http.ResponseWriter {
	w, _ := ctx.Value(httpWriterKey{}).(http.ResponseWriter)
	return w
}

func WithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey{}, t)
}

func StartTime(ctx context.Context) time.Time {
	t, _ := ctx.Value(startTimeKey{}).(time.Time)
	return t
}

func WithError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, errorKey{}, err)
}

func Error(ctx context.Context) error {
	err, _ := ctx.Value(errorKey{}).(error)
	return err
}

func WithResponse(ctx context.Context, resp any) context.Context {
	return context.WithValue(ctx, responseKey{}, resp)
}

func Response(ctx context.Context) any {
	return ctx.Value(responseKey{})
}
