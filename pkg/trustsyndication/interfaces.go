package trustsyndication

import (
	"context"

	"github.com/google/uuid"
)

// MetadataStore defines the interface for trust metadata persistence.
//
// Implementations key records by item ID and must keep the metadata edit
// fields and the analytics counters on separate write paths: Upsert writes
// trust attributes only, UpdateAnalytics writes the three counter fields
// only.
type MetadataStore interface {
	// Get returns the record for an item, or ErrMetadataNotFound.
	Get(ctx context.Context, itemID uuid.UUID) (*TrustMetadata, error)

	// Upsert inserts or updates the record matching the item ID. It never
	// creates a second record for the same item and never modifies the
	// analytics counters of an existing record.
	Upsert(ctx context.Context, metadata *TrustMetadata) error

	// UpdateAnalytics applies fn to the item's counters and persists all
	// three analytics fields in one write. The read-modify-write is atomic
	// per item: concurrent calls for the same item serialize, so no update
	// is lost. Returns ErrMetadataNotFound if no record exists.
	UpdateAnalytics(ctx context.Context, itemID uuid.UUID, fn func(*SyndicationAnalytics) error) (*SyndicationAnalytics, error)

	// ListSyndicated returns all records with syndication enabled.
	ListSyndicated(ctx context.Context) ([]*TrustMetadata, error)

	// List returns all records keyed by item ID.
	List(ctx context.Context) (map[uuid.UUID]*TrustMetadata, error)
}

// ContentStore is the read-only view of the host system's content items.
type ContentStore interface {
	// Get returns a content item by ID, or ErrContentNotFound.
	Get(ctx context.Context, id uuid.UUID) (*ContentItem, error)

	// List returns all content items.
	List(ctx context.Context) ([]*ContentItem, error)
}

// TopicResolver looks up terms in the trust-topics vocabulary.
type TopicResolver interface {
	// List returns every term in the vocabulary, ordered for display.
	List(ctx context.Context) ([]Topic, error)

	// NamesFor dereferences topic IDs to display names, preserving input
	// order. Unknown IDs are skipped.
	NamesFor(ctx context.Context, ids []int64) ([]string, error)
}

// ContactDirectory resolves the accounts holding the developer role. It is
// consulted fresh on every resolution so role membership changes take effect
// without a metadata edit.
type ContactDirectory interface {
	DeveloperContacts(ctx context.Context) ([]Contact, error)
}

// SiteNameFunc returns the global site name used as the content authority.
// It is invoked on every read and its result must never be cached.
type SiteNameFunc func() string

// EventSink defines the interface for event handling.
type EventSink interface {
	// MetadataUpdated is fired after a successful metadata save
	MetadataUpdated(ctx context.Context, metadata *TrustMetadata) error

	// SyndicationToggled is fired after the enabled flag changes
	SyndicationToggled(ctx context.Context, itemID uuid.UUID, enabled bool) error

	// ViewReported is fired after a consumer-site view is recorded
	ViewReported(ctx context.Context, itemID uuid.UUID, consumerSite string) error
}
