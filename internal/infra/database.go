package infra

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"almacen/internal/model"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// NewDatabase opens a GORM connection for the configured driver.
// "postgres" is the production store; "sqlite" takes a file path or a
// file::memory: DSN and is meant for development and tests.
func NewDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("database driver no soportado: %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// a single connection keeps shared in-memory databases alive and
		// serializes writers
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}
	return db, nil
}

// Migrate runs a goose command (up, down, status, version, redo, reset)
// against the SQL migrations embedded in the binary. PostgreSQL only.
func Migrate(ctx context.Context, sqlDB *sql.DB, command string, args ...string) error {
	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, sqlDB, migrationsDir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// PrepareSchema brings the schema up to date for the given driver:
// goose migrations on PostgreSQL, AutoMigrate on SQLite.
func PrepareSchema(ctx context.Context, driver string, db *gorm.DB) error {
	if driver == "sqlite" {
		return RunMigrations(db)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return Migrate(ctx, sqlDB, "up")
}

// RunMigrations creates or updates every table through GORM AutoMigrate.
// Used with SQLite in development and in tests.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Usuario{},
		&model.Producto{},
		&model.Cliente{},
		&model.Proveedor{},
		&model.ListaProveedores{},
		&model.Pedido{},
		&model.ListaProducto{},
		&model.Venta{},
		&model.MovimientoStock{},
	)
}
