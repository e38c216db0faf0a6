package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"

	"archersedge/config"

	_ "github.com/lib/pq"
)

// Applies migrations/<n>.sql in order on top of the tables gorm creates.
func main() {
	db, err := sql.Open("postgres", config.Env().DSN()+" search_path="+config.SchemaName)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	version, err := getMigrationVersion(db)
	if err != nil {
		log.Fatal(err)
	}

	for {
		version++
		err = migrateUp(db, version)
		if errors.Is(err, os.ErrNotExist) {
			fmt.Printf("Schema is at version %d\n", version-1)
			return
		}
		if err != nil {
			log.Fatal(err)
		}
	}
}

func migrateUp(db *sql.DB, version int) error {
	file, err := os.ReadFile(fmt.Sprintf("migrations/%d.sql", version))
	if err != nil {
		return err
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err = tx.Exec(string(file)); err != nil {
		tx.Rollback()
		return fmt.Errorf("error executing migration %d: %w", version, err)
	}
	if _, err = tx.Exec("UPDATE migrations SET version = $1", version); err != nil {
		tx.Rollback()
		return fmt.Errorf("error updating migration version: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	fmt.Printf("Migrated to version %d\n", version)
	return nil
}

func getMigrationVersion(db *sql.DB) (version int, err error) {
	if _, err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + config.SchemaName); err != nil {
		return 0, err
	}
	err = db.QueryRow("SELECT version FROM migrations").Scan(&version)
	if err != nil {
		if err := generateMigrationTable(db); err != nil {
			return 0, err
		}
		return 0, nil
	}
	return version, nil
}

func generateMigrationTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			version INT PRIMARY KEY
		);
		INSERT INTO migrations (version) VALUES (0);
	`)
	return err
}
