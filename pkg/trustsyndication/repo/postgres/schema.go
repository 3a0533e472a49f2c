package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the DDL for the trust syndication tables.
const Schema = `
CREATE TABLE IF NOT EXISTS trust_metadata (
	item_id UUID PRIMARY KEY,
	trust_role VARCHAR(64) NOT NULL DEFAULT '',
	trust_scope VARCHAR(64) NOT NULL DEFAULT '',
	type VARCHAR(64) NOT NULL DEFAULT '',
	timeliness VARCHAR(64) NOT NULL DEFAULT '',
	audience VARCHAR(64) NOT NULL DEFAULT '',
	trust_contact VARCHAR(255) NOT NULL DEFAULT '',
	trust_topics BIGINT[] NOT NULL DEFAULT '{}',
	trust_syndication_enabled BOOLEAN NOT NULL DEFAULT FALSE,
	syndication_consumer_sites INTEGER NOT NULL DEFAULT 0,
	syndication_total_views BIGINT NOT NULL DEFAULT 0,
	syndication_consumer_sites_list TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS trust_metadata_syndication_enabled_idx
	ON trust_metadata (trust_syndication_enabled)
	WHERE trust_syndication_enabled;

CREATE TABLE IF NOT EXISTS content_items (
	id UUID PRIMARY KEY,
	uuid UUID NOT NULL,
	type VARCHAR(64) NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	path TEXT NOT NULL DEFAULT '',
	body_summary TEXT NOT NULL DEFAULT '',
	body TEXT NOT NULL DEFAULT '',
	type_summary TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	abstract TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS trust_topics (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	weight INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS developer_contacts (
	id VARCHAR(64) PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL
);
`

// Setup creates the tables if they do not exist.
func Setup(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, Schema)
	return err
}
