package database

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"golang.org/x/crypto/bcrypt"
)

// Calendar dates (prayer_date, log_date, birth_date, conversion_date) are
// stored as YYYY-MM-DD text so range comparisons behave identically on
// PostgreSQL and SQLite.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id %[1]s,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		phone TEXT,
		role TEXT NOT NULL DEFAULT 'Member',
		status TEXT NOT NULL DEFAULT 'Active',
		cell_id INTEGER,
		datetime_create TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		datetime_update TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS cells (
		cell_id %[1]s,
		number TEXT NOT NULL UNIQUE,
		name TEXT,
		description TEXT,
		leader_id INTEGER,
		supervisor_id INTEGER,
		coordinator_id INTEGER,
		datetime_create TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		datetime_update TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS user_cells (
		user_cell_id %[1]s,
		user_id INTEGER NOT NULL,
		cell_id INTEGER NOT NULL,
		role_in_cell TEXT NOT NULL DEFAULT 'Member',
		datetime_create TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user_id, cell_id)
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		profile_id %[1]s,
		user_id INTEGER NOT NULL UNIQUE,
		whatsapp TEXT,
		gender TEXT,
		birth_date TEXT,
		birth_city TEXT,
		birth_state TEXT,
		address TEXT,
		address_number TEXT,
		district TEXT,
		city TEXT,
		state TEXT,
		zip_code TEXT,
		father_name TEXT,
		mother_name TEXT,
		marital_status TEXT,
		spouse_name TEXT,
		education TEXT,
		profession TEXT,
		conversion_date TEXT,
		previous_church TEXT,
		oikos1 TEXT,
		oikos2 TEXT,
		datetime_create TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		datetime_update TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS dependents (
		dependent_id %[1]s,
		user_id INTEGER NOT NULL,
		full_name TEXT NOT NULL,
		birth_date TEXT,
		gender TEXT,
		observations TEXT,
		datetime_create TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		datetime_update TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS prayer_logs (
		prayer_log_id %[1]s,
		user_id INTEGER NOT NULL,
		prayer_date TEXT NOT NULL,
		datetime_create TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user_id, prayer_date)
	)`,
	`CREATE TABLE IF NOT EXISTS prayer_requests (
		prayer_request_id %[1]s,
		user_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT 'other',
		urgency TEXT NOT NULL DEFAULT 'normal',
		status TEXT NOT NULL DEFAULT 'active',
		is_anonymous BOOLEAN NOT NULL DEFAULT FALSE,
		is_public BOOLEAN NOT NULL DEFAULT TRUE,
		prayer_count INTEGER NOT NULL DEFAULT 0,
		datetime_create TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		datetime_update TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS prayer_request_logs (
		prayer_request_log_id %[1]s,
		prayer_request_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		log_date TEXT NOT NULL,
		datetime_create TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (prayer_request_id, user_id, log_date)
	)`,
	`CREATE TABLE IF NOT EXISTS password_reset_tokens (
		password_reset_token_id %[1]s,
		user_id INTEGER NOT NULL,
		code TEXT NOT NULL,
		expires_at TIMESTAMP NOT NULL,
		used BOOLEAN NOT NULL DEFAULT FALSE,
		attempts INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Migrate creates the schema if absent and seeds first-run bootstrap rows.
func Migrate(db *DB) error {
	serial := "SERIAL PRIMARY KEY"
	if db.Driver == "sqlite" {
		serial = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	for _, stmt := range tables {
		if _, err := db.Exec(fmt.Sprintf(stmt, serial)); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	return seed(db)
}

// seed inserts a default Pastor account and one sample cell on an empty
// database so a fresh install can log in immediately.
func seed(db *DB) error {
	count, err := db.From("users").Count()
	if err != nil {
		return err
	}
	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("cellhub123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		insert := db.Insert("users").Rows(goqu.Record{
			"name":     "Pastor",
			"email":    "pastor@cellhub.local",
			"password": string(hash),
			"role":     "Pastor",
			"status":   "Active",
		}).Executor()
		if _, err := insert.Exec(); err != nil {
			return err
		}
	}

	count, err = db.From("cells").Count()
	if err != nil {
		return err
	}
	if count == 0 {
		insert := db.Insert("cells").Rows(goqu.Record{
			"number": "1",
			"name":   "Célula 1",
		}).Executor()
		if _, err := insert.Exec(); err != nil {
			return err
		}
	}

	return nil
}
