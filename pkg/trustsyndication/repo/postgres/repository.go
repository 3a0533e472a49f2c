// Package postgres provides a PostgreSQL-backed implementation of the
// trustsyndication stores using pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusweb/trust-syndication/pkg/trustsyndication"
)

// DBTX is an interface that allows us to use either a connection pool or a
// transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository implements the trustsyndication stores using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "trust_metadata") {
				return fmt.Errorf("trust metadata already exists")
			}
			return fmt.Errorf("duplicate entry")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Metadata operations

const metadataColumns = `item_id, trust_role, trust_scope, type, timeliness, audience,
	       trust_contact, trust_topics, trust_syndication_enabled,
	       syndication_consumer_sites, syndication_total_views,
	       syndication_consumer_sites_list, created_at, updated_at`

func scanMetadata(row pgx.Row) (*trustsyndication.TrustMetadata, error) {
	var m trustsyndication.TrustMetadata
	err := row.Scan(
		&m.ItemID, &m.TrustRole, &m.TrustScope, &m.Type, &m.Timeliness, &m.Audience,
		&m.TrustContact, &m.TrustTopics, &m.TrustSyndicationEnabled,
		&m.ConsumerSites, &m.TotalViews, &m.ConsumerSitesList,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if m.TrustTopics == nil {
		m.TrustTopics = []int64{}
	}
	return &m, nil
}

func (r *Repository) Get(ctx context.Context, itemID uuid.UUID) (*trustsyndication.TrustMetadata, error) {
	query := `SELECT ` + metadataColumns + ` FROM trust_metadata WHERE item_id = $1`

	metadata, err := scanMetadata(r.db.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, trustsyndication.ErrMetadataNotFound
		}
		return nil, r.handlePostgresError("get trust metadata", err)
	}
	return metadata, nil
}

// Upsert inserts or updates the record keyed on item_id. The conflict branch
// writes the trust attributes only, so the analytics counters of an existing
// row are never reset by an edit.
func (r *Repository) Upsert(ctx context.Context, metadata *trustsyndication.TrustMetadata) error {
	query := `
		INSERT INTO trust_metadata (
			item_id, trust_role, trust_scope, type, timeliness, audience,
			trust_contact, trust_topics, trust_syndication_enabled,
			syndication_consumer_sites, syndication_total_views,
			syndication_consumer_sites_list, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 0, '', $10, $11)
		ON CONFLICT (item_id) DO UPDATE SET
			trust_role = EXCLUDED.trust_role,
			trust_scope = EXCLUDED.trust_scope,
			type = EXCLUDED.type,
			timeliness = EXCLUDED.timeliness,
			audience = EXCLUDED.audience,
			trust_contact = EXCLUDED.trust_contact,
			trust_topics = EXCLUDED.trust_topics,
			trust_syndication_enabled = EXCLUDED.trust_syndication_enabled,
			updated_at = EXCLUDED.updated_at`

	topics := metadata.TrustTopics
	if topics == nil {
		topics = []int64{}
	}

	_, err := r.db.Exec(ctx, query,
		metadata.ItemID, metadata.TrustRole, metadata.TrustScope, metadata.Type,
		metadata.Timeliness, metadata.Audience, metadata.TrustContact, topics,
		metadata.TrustSyndicationEnabled, metadata.CreatedAt, metadata.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("upsert trust metadata", err)
	}
	return nil
}

// UpdateAnalytics applies fn to the row's counters under a row lock so
// concurrent view reports for the same item serialize instead of losing
// updates.
func (r *Repository) UpdateAnalytics(ctx context.Context, itemID uuid.UUID, fn func(*trustsyndication.SyndicationAnalytics) error) (*trustsyndication.SyndicationAnalytics, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, r.handlePostgresError("update analytics", err)
	}
	defer tx.Rollback(ctx)

	var analytics trustsyndication.SyndicationAnalytics
	err = tx.QueryRow(ctx, `
		SELECT syndication_consumer_sites, syndication_total_views,
		       syndication_consumer_sites_list
		FROM trust_metadata WHERE item_id = $1 FOR UPDATE`, itemID).
		Scan(&analytics.ConsumerSites, &analytics.TotalViews, &analytics.SitesList)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, trustsyndication.ErrMetadataNotFound
		}
		return nil, r.handlePostgresError("update analytics", err)
	}

	if err := fn(&analytics); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE trust_metadata SET
			syndication_consumer_sites = $2,
			syndication_total_views = $3,
			syndication_consumer_sites_list = $4,
			updated_at = NOW()
		WHERE item_id = $1`,
		itemID, analytics.ConsumerSites, analytics.TotalViews, analytics.SitesList)
	if err != nil {
		return nil, r.handlePostgresError("update analytics", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, r.handlePostgresError("update analytics", err)
	}
	return &analytics, nil
}

func (r *Repository) ListSyndicated(ctx context.Context) ([]*trustsyndication.TrustMetadata, error) {
	query := `SELECT ` + metadataColumns + `
		FROM trust_metadata WHERE trust_syndication_enabled ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list syndicated", err)
	}
	defer rows.Close()

	var result []*trustsyndication.TrustMetadata
	for rows.Next() {
		metadata, err := scanMetadata(rows)
		if err != nil {
			return nil, r.handlePostgresError("list syndicated", err)
		}
		result = append(result, metadata)
	}
	return result, rows.Err()
}

func (r *Repository) List(ctx context.Context) (map[uuid.UUID]*trustsyndication.TrustMetadata, error) {
	query := `SELECT ` + metadataColumns + ` FROM trust_metadata`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list trust metadata", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID]*trustsyndication.TrustMetadata)
	for rows.Next() {
		metadata, err := scanMetadata(rows)
		if err != nil {
			return nil, r.handlePostgresError("list trust metadata", err)
		}
		result[metadata.ItemID] = metadata
	}
	return result, rows.Err()
}

// Content operations

const contentColumns = `id, uuid, type, title, path, body_summary, body,
	       type_summary, bio, description, abstract, created_at`

func scanContentItem(row pgx.Row) (*trustsyndication.ContentItem, error) {
	var item trustsyndication.ContentItem
	err := row.Scan(
		&item.ID, &item.UUID, &item.Type, &item.Title, &item.Path,
		&item.BodySummary, &item.Body, &item.TypeSummary, &item.Bio,
		&item.Description, &item.Abstract, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ContentStore returns the repository as a trustsyndication.ContentStore.
func (r *Repository) ContentStore() trustsyndication.ContentStore {
	return contentStore{r}
}

type contentStore struct{ r *Repository }

func (s contentStore) Get(ctx context.Context, id uuid.UUID) (*trustsyndication.ContentItem, error) {
	query := `SELECT ` + contentColumns + ` FROM content_items WHERE id = $1`

	item, err := scanContentItem(s.r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, trustsyndication.ErrContentNotFound
		}
		return nil, s.r.handlePostgresError("get content item", err)
	}
	return item, nil
}

func (s contentStore) List(ctx context.Context) ([]*trustsyndication.ContentItem, error) {
	query := `SELECT ` + contentColumns + ` FROM content_items ORDER BY created_at DESC`

	rows, err := s.r.db.Query(ctx, query)
	if err != nil {
		return nil, s.r.handlePostgresError("list content items", err)
	}
	defer rows.Close()

	var result []*trustsyndication.ContentItem
	for rows.Next() {
		item, err := scanContentItem(rows)
		if err != nil {
			return nil, s.r.handlePostgresError("list content items", err)
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// Topic operations

// TopicResolver returns the repository as a trustsyndication.TopicResolver.
func (r *Repository) TopicResolver() trustsyndication.TopicResolver {
	return topicResolver{r}
}

type topicResolver struct{ r *Repository }

func (t topicResolver) List(ctx context.Context) ([]trustsyndication.Topic, error) {
	rows, err := t.r.db.Query(ctx, `SELECT id, name FROM trust_topics ORDER BY weight, name`)
	if err != nil {
		return nil, t.r.handlePostgresError("list topics", err)
	}
	defer rows.Close()

	var topics []trustsyndication.Topic
	for rows.Next() {
		var topic trustsyndication.Topic
		if err := rows.Scan(&topic.ID, &topic.Name); err != nil {
			return nil, t.r.handlePostgresError("list topics", err)
		}
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}

func (t topicResolver) NamesFor(ctx context.Context, ids []int64) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}

	rows, err := t.r.db.Query(ctx, `SELECT id, name FROM trust_topics WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, t.r.handlePostgresError("resolve topic names", err)
	}
	defer rows.Close()

	byID := make(map[int64]string, len(ids))
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, t.r.handlePostgresError("resolve topic names", err)
		}
		byID[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Preserve the record's display order; unknown ids are skipped
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, exists := byID[id]; exists {
			names = append(names, name)
		}
	}
	return names, nil
}

// Contact operations

func (r *Repository) DeveloperContacts(ctx context.Context) ([]trustsyndication.Contact, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, email FROM developer_contacts ORDER BY email`)
	if err != nil {
		return nil, r.handlePostgresError("list developer contacts", err)
	}
	defer rows.Close()

	var contacts []trustsyndication.Contact
	for rows.Next() {
		var contact trustsyndication.Contact
		if err := rows.Scan(&contact.ID, &contact.Name, &contact.Email); err != nil {
			return nil, r.handlePostgresError("list developer contacts", err)
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}
