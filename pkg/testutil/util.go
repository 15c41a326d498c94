package testutil

import (
	"context"
	"time"

	"github.com/socialgraph-lab/backend/config"
	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/pkg/logger"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func MockConfigs() config.Configs {
	cfg := config.Default()
	cfg.Database.Driver = "sqlite"
	cfg.Database.Database = ":memory:"
	cfg.Auth.TokenSecret = "secret"
	cfg.Auth.AccessToken.Expiration = time.Minute
	cfg.File.MaxImageWidth = 64
	return cfg
}

// MockContext returns a context holding a fresh in-memory database with every table migrated.
func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// Every connection to :memory: opens its own database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := entity.MigrateTable(db); err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, MockConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}

// WithUserID switches the request user of ctx while keeping the same database.
func WithUserID(ctx context.Context, userID string) context.Context {
	return xcontext.WithRequestUserID(ctx, userID)
}
