package db

import (
	"fmt"

	"github.com/vitrine-dev/vitrine/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const maxOpenConns = 10

// EnsureDatabase creates the application database if it does not exist yet.
// serverDSN must not select a database.
func EnsureDatabase(serverDSN, name string) error {
	conn, err := gorm.Open(mysql.Open(serverDSN), &gorm.Config{})

	if err != nil {
		return err
	}

	sqlDB, err := conn.DB()

	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return conn.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name)).Error
}

// Connect opens the connection pool. Requests beyond maxOpenConns wait for a
// free connection rather than fail.
func Connect(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})

	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()

	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxOpenConns)

	return conn, nil
}

func Migrate(conn *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Record{},
		&models.Image{},
	}

	migrator := conn.Migrator()

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := conn.AutoMigrate(table); err != nil {
				return err
			}
		}
	}

	return nil
}

// Close releases the underlying connection pool.
func Close(conn *gorm.DB) error {
	sqlDB, err := conn.DB()

	if err != nil {
		return err
	}

	return sqlDB.Close()
}
