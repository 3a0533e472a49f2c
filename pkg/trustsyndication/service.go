package trustsyndication

import (
	"context"

	"github.com/google/uuid"
)

// Service is the main interface for trust metadata and syndication
// operations.
type Service interface {
	// GetMetadata returns the trust record for an item. A missing record is
	// not an error: a default-empty record (all attributes unset, syndication
	// disabled, zero counters) is returned instead.
	GetMetadata(ctx context.Context, itemID uuid.UUID) (*TrustMetadata, error)

	// UpdateMetadata merges the provided fields into the item's record,
	// creating it with defaults first if absent, and persists the result in
	// a single keyed upsert.
	UpdateMetadata(ctx context.Context, req UpdateMetadataRequest) (*TrustMetadata, error)

	// ToggleSyndication sets just the syndication-enabled flag, leaving every
	// other field untouched.
	ToggleSyndication(ctx context.Context, itemID uuid.UUID, enabled bool) (*TrustMetadata, error)

	// ListTopics returns the trust-topics vocabulary.
	ListTopics(ctx context.Context) ([]Topic, error)

	// TopicNames dereferences topic IDs to display names, preserving order
	// and skipping unknown IDs.
	TopicNames(ctx context.Context, ids []int64) ([]string, error)

	// GetContentItem returns the content item an ID refers to, or
	// ErrContentNotFound.
	GetContentItem(ctx context.Context, id uuid.UUID) (*ContentItem, error)

	// ListSyndicated assembles the syndication feed: one entry per item with
	// syndication enabled, with resolved summary, contacts, topic names and
	// the current content authority. Items whose owning content item no
	// longer exists are skipped; any other failure aborts the whole listing.
	ListSyndicated(ctx context.Context) ([]FeedEntry, error)

	// ReportView records one view from a consumer site. Returns
	// ErrMetadataNotFound if the item has no record and
	// ErrSyndicationNotEnabled if it is not opted in.
	ReportView(ctx context.Context, itemID uuid.UUID, consumerSite string) (*SyndicationAnalytics, error)

	// GetAnalytics returns the item's view counters, zeros if no record
	// exists.
	GetAnalytics(ctx context.Context, itemID uuid.UUID) (*SyndicationAnalytics, error)

	// ResolveContacts resolves a record's contact string into contact
	// objects, falling back to the live developer directory when no explicit
	// emails are stored.
	ResolveContacts(ctx context.Context, metadata *TrustMetadata) ([]Contact, error)

	// ContentAuthority returns the current site name. The value is computed
	// fresh on every call.
	ContentAuthority() string

	// Overview returns one page of the admin overview listing.
	Overview(ctx context.Context, filters OverviewFilters) (*OverviewPage, error)
}
