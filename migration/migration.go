package migration

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/socialgraph-lab/backend/internal/entity"
	"github.com/socialgraph-lab/backend/pkg/xcontext"
)

//go:embed mysql/*.sql postgres/*.sql
var migrationFS embed.FS

// Migrate applies the versioned sql migrations of the configured driver up to version, or to
// the latest one if version is zero. The sqlite driver has no versioned migrations, its schema
// is created from the entities instead.
func Migrate(ctx context.Context, version uint) error {
	cfg := xcontext.Configs(ctx).Database
	if cfg.Driver == "sqlite" {
		return AutoMigrate(ctx)
	}

	m, err := newMigrate(ctx, cfg.Driver, cfg.Database)
	if err != nil {
		return err
	}
	defer m.Close()

	m.Log = &migrateLogger{ctx: ctx}

	if version == 0 {
		err = m.Up()
	} else {
		err = m.Migrate(version)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

func AutoMigrate(ctx context.Context) error {
	return entity.MigrateTable(xcontext.DB(ctx))
}

func newMigrate(ctx context.Context, driver, databaseName string) (*migrate.Migrate, error) {
	sqlDB, err := xcontext.DB(ctx).DB()
	if err != nil {
		return nil, err
	}

	var instance database.Driver
	switch driver {
	case "mysql":
		instance, err = mysql.WithInstance(sqlDB, &mysql.Config{})
	case "postgres":
		instance, err = postgres.WithInstance(sqlDB, &postgres.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver %s", driver)
	}
	if err != nil {
		return nil, err
	}

	source, err := iofs.New(migrationFS, driver)
	if err != nil {
		return nil, err
	}

	return migrate.NewWithInstance("iofs", source, databaseName, instance)
}

type migrateLogger struct {
	ctx context.Context
}

func (l *migrateLogger) Printf(format string, v ...any) {
	xcontext.Logger(l.ctx).Infof(format, v...)
}

func (l *migrateLogger) Verbose() bool {
	return false
}
