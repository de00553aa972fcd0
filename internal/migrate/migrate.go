// Package migrate applies the embedded SQL migrations.
package migrate

import (
	"database/sql"
	"errors"

	embedded "github.com/goserg/clubsite"

	gomigrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func UpBotDB(db *sql.DB) error {
	sourceDriver, err := iofs.New(embedded.BotMigrations, "bot/migrations")
	if err != nil {
		return err
	}
	databaseDriver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := gomigrate.NewWithInstance("iofs",
		sourceDriver,
		"bot", databaseDriver)
	if err != nil {
		return err
	}
	err = m.Up()
	if err != nil && !errors.Is(err, gomigrate.ErrNoChange) {
		return err
	}
	return nil
}
