package repository

import (
	"database/sql"
	"embed"
	"errors"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings the schema up to date. The unique and foreign key
// constraints the repositories map to sentinel errors live in these
// migrations, so this must run before any repo is used.
func Migrate(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return errors.New("opening migration connection error: " + err.Error())
	}
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.New("setting goose dialect error: " + err.Error())
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return errors.New("running migrations error: " + err.Error())
	}
	return nil
}
