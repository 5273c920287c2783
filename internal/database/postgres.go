package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

var PostgresDB *sql.DB

// ConnectPostgres connects to PostgreSQL database
func ConnectPostgres(postgresURI string) error {
	var err error

	PostgresDB, err = sql.Open("postgres", postgresURI)
	if err != nil {
		return err
	}

	// Set connection pool settings
	PostgresDB.SetMaxOpenConns(25)
	PostgresDB.SetMaxIdleConns(5)
	PostgresDB.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = PostgresDB.PingContext(ctx); err != nil {
		return err
	}

	log.Info().Msg("✅ Connected to PostgreSQL")
	return nil
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables(ctx context.Context) error {
	queries := []string{
		// Accounts (anonymous identities; moderation state lives here)
		`CREATE TABLE IF NOT EXISTS accounts (
			id UUID PRIMARY KEY,
			anon_id VARCHAR(64) NOT NULL UNIQUE,
			username VARCHAR(40) NOT NULL,
			role VARCHAR(10) NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
			is_banned BOOLEAN NOT NULL DEFAULT FALSE,
			ban_expires_at TIMESTAMPTZ,
			is_read_only BOOLEAN NOT NULL DEFAULT FALSE,
			strike_count INTEGER NOT NULL DEFAULT 0 CHECK (strike_count >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Admin credentials (password login for admin accounts)
		`CREATE TABLE IF NOT EXISTS admin_credentials (
			account_id UUID PRIMARY KEY REFERENCES accounts(id) ON DELETE CASCADE,
			username VARCHAR(20) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS posts (
			id BIGSERIAL PRIMARY KEY,
			author_id UUID NOT NULL REFERENCES accounts(id),
			content TEXT NOT NULL,
			mood_tag VARCHAR(50) NOT NULL,
			mode VARCHAR(10) NOT NULL CHECK (mode IN ('vent', 'advice')),
			report_count INTEGER NOT NULL DEFAULT 0 CHECK (report_count >= 0),
			is_hidden BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS comments (
			id BIGSERIAL PRIMARY KEY,
			post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			author_id UUID NOT NULL REFERENCES accounts(id),
			content TEXT NOT NULL,
			report_count INTEGER NOT NULL DEFAULT 0 CHECK (report_count >= 0),
			is_hidden BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// One live reaction per (target, account)
		`CREATE TABLE IF NOT EXISTS reactions (
			target_type VARCHAR(10) NOT NULL CHECK (target_type IN ('post', 'comment')),
			target_id BIGINT NOT NULL,
			account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			type VARCHAR(10) NOT NULL CHECK (type IN ('relate', 'alone', 'helpful', 'support')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (target_type, target_id, account_id)
		)`,

		// One report per (target, reporter)
		`CREATE TABLE IF NOT EXISTS reports (
			id BIGSERIAL PRIMARY KEY,
			target_type VARCHAR(10) NOT NULL CHECK (target_type IN ('post', 'comment')),
			target_id BIGINT NOT NULL,
			reporter_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			reason TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (target_type, target_id, reporter_id)
		)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id BIGSERIAL PRIMARY KEY,
			account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			message TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Create indexes
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_admin_credentials_username_lower ON admin_credentials(LOWER(username))`,
		`CREATE INDEX IF NOT EXISTS idx_posts_visible ON posts(id DESC) WHERE is_hidden = FALSE`,
		`CREATE INDEX IF NOT EXISTS idx_posts_author_id ON posts(author_id, id DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id, id DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_target ON reports(target_type, target_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reactions_account_id ON reactions(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_account_id ON notifications(account_id, id DESC)`,
	}

	for _, query := range queries {
		if _, err := PostgresDB.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("init tables: %w", err)
		}
	}

	log.Info().Msg("✅ PostgreSQL tables initialized")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}
