package database

import (
	"context"
	"database/sql"
)

// schema lists the CREATE TABLE statements for the four entities.
// InnoDB enforces the foreign keys (service_requests -> guests,
// request_activities -> service_requests); updated_at is
// maintained by the advance path, not a trigger.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS guests (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		confirmation_code VARCHAR(64) NOT NULL,
		tier ENUM('platinum','gold','silver') NOT NULL DEFAULT 'silver',
		status ENUM('checked_in','pre_arrival') NOT NULL DEFAULT 'checked_in',
		room_number VARCHAR(16) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_guests_confirmation_code (confirmation_code)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS staff_users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		employee_id VARCHAR(64) NOT NULL,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		role VARCHAR(50) NOT NULL DEFAULT 'staff',
		PRIMARY KEY (id),
		UNIQUE KEY uq_staff_users_employee_id (employee_id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS service_requests (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		guest_id BIGINT UNSIGNED NOT NULL,
		category ENUM('housekeeping','dining','maintenance','concierge','front_desk','other') NOT NULL,
		priority ENUM('low','medium','high') NOT NULL DEFAULT 'medium',
		request_type VARCHAR(100) NULL,
		description TEXT NOT NULL,
		status ENUM('new','assigned','in_progress','completed') NOT NULL DEFAULT 'new',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_service_requests_guest (guest_id),
		KEY idx_service_requests_status (status),
		CONSTRAINT fk_service_requests_guest FOREIGN KEY (guest_id) REFERENCES guests (id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS request_activities (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		request_id BIGINT UNSIGNED NOT NULL,
		action VARCHAR(255) NOT NULL,
		staff_name VARCHAR(200) NULL,
		note TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_request_activities_request (request_id),
		CONSTRAINT fk_request_activities_request FOREIGN KEY (request_id) REFERENCES service_requests (id)
	) ENGINE=InnoDB`,
}

// EnsureSchema creates the application tables when they do not
// exist yet. This is a fresh-scaffold bootstrap, not a migration
// system: existing tables are left untouched.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
