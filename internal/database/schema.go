package database

import (
	"context"
	"database/sql"
)

// Schema holds the DDL applied by `hostelctl migrate`.  Statements are
// idempotent so the command can run on every deploy.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role ENUM('USER','AGENT','ADMIN') NOT NULL DEFAULT 'USER',
		full_name VARCHAR(255) NOT NULL DEFAULT '',
		phone VARCHAR(32) NOT NULL DEFAULT '',
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_user (user_id),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS hostels (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(255) NOT NULL,
		gender ENUM('MALE','FEMALE','MIXED') NOT NULL DEFAULT 'MIXED',
		description TEXT NOT NULL,
		image_url VARCHAR(512) NOT NULL DEFAULT '',
		room_count INT UNSIGNED NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS rooms (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		hostel_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(255) NOT NULL,
		floor INT UNSIGNED NOT NULL DEFAULT 0,
		room_type VARCHAR(64) NOT NULL DEFAULT '',
		price_cents INT UNSIGNED NOT NULL DEFAULT 0,
		capacity INT UNSIGNED NOT NULL,
		occupied INT UNSIGNED NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_rooms_hostel_floor (hostel_id, floor),
		CONSTRAINT fk_rooms_hostel FOREIGN KEY (hostel_id) REFERENCES hostels(id) ON DELETE CASCADE,
		CONSTRAINT chk_rooms_occupied CHECK (occupied <= capacity)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		room_id BIGINT UNSIGNED NOT NULL,
		hostel_id BIGINT UNSIGNED NOT NULL,
		agent_id BIGINT UNSIGNED NULL,
		status ENUM('PENDING','APPROVED','REJECTED','CANCELLED') NOT NULL DEFAULT 'PENDING',
		paid TINYINT(1) NOT NULL DEFAULT 0,
		payment_ref VARCHAR(64) NULL,
		idempotency_key VARCHAR(128) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_bookings_idem_key (idempotency_key),
		KEY idx_bookings_user (user_id),
		KEY idx_bookings_room_status (room_id, status),
		KEY idx_bookings_agent (agent_id),
		CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users(id),
		CONSTRAINT fk_bookings_room FOREIGN KEY (room_id) REFERENCES rooms(id),
		CONSTRAINT fk_bookings_hostel FOREIGN KEY (hostel_id) REFERENCES hostels(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate applies the schema in order.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
