package mock

import (
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/contacerta/backend/config"
	"github.com/contacerta/backend/internal/infra/db"
)

var once sync.Once
var database *Db

// Db is the SQLite database shared by every scenario of the suite.
type Db struct {
	Database *db.Database
	DbConn   *gorm.DB
	models   map[string]any
}

// NewDb opens the in-memory database once and migrates the given models,
// keyed by table name.
func NewDb(models map[string]any) *Db {
	once.Do(func() {
		database = open(models)
	})

	return database
}

func open(models map[string]any) *Db {
	conn, err := db.NewSQLiteConnection(&config.DatabaseConfig{
		Driver: db.DriverSQLite,
		URL:    "file::memory:",
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	newDbMock := &Db{
		Database: conn,
		DbConn:   conn.DB(),
		models:   models,
	}

	if err := conn.Migrate(); err != nil {
		panic(fmt.Sprintf("failed to migrate database. err: %s", err.Error()))
	}

	if err := newDbMock.checkTables(); err != nil {
		panic(err)
	}

	return newDbMock
}

// ClearDB deletes every row of every registered table.
func (d *Db) ClearDB() (err error) {
	if err = d.DbConn.Exec("PRAGMA foreign_keys = OFF").Error; err != nil {
		return err
	}
	defer func() {
		if errFK := d.DbConn.Exec("PRAGMA foreign_keys = ON").Error; err == nil {
			err = errFK
		}
	}()

	for _, model := range d.models {
		err = d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error
		if err != nil {
			return err
		}

		stmt := &gorm.Statement{DB: d.DbConn}
		if err := stmt.Parse(model); err != nil {
			return err
		}

		err = d.DbConn.Exec("DELETE FROM sqlite_sequence WHERE name = ?", stmt.Schema.Table).Error
		if err != nil && !strings.Contains(err.Error(), "no such table: sqlite_sequence") {
			return err
		}
	}

	return nil
}

func (d *Db) checkTables() error {
	for table, model := range d.models {
		if !d.DbConn.Migrator().HasTable(model) {
			return fmt.Errorf("table %s for model %T was not created", table, model)
		}
	}
	return nil
}

// GetModel returns the model registered for table.
func (d *Db) GetModel(table string) (any, bool) {
	model, ok := d.models[table]
	return model, ok
}
