package config

import (
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const SchemaName = "archers"

var (
	db     *gorm.DB
	dbErr  error
	onceDB sync.Once
)

// Open connects to postgres with the archers schema prefix. It does not migrate.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   SchemaName + ".",
			SingularTable: false,
		},
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// InitDB opens the connection and migrates the given models.
func InitDB(dsn string, models ...interface{}) (*gorm.DB, error) {
	conn, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := conn.Exec(`CREATE SCHEMA IF NOT EXISTS ` + SchemaName).Error; err != nil {
		return nil, err
	}
	if err := conn.AutoMigrate(models...); err != nil {
		return nil, err
	}
	return conn, nil
}

// DatabaseConnection returns the shared connection built from the environment.
func DatabaseConnection(models ...interface{}) (*gorm.DB, error) {
	onceDB.Do(func() {
		db, dbErr = InitDB(Env().DSN(), models...)
	})
	return db, dbErr
}
