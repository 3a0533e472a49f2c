// Package memory provides in-memory implementations of the trustsyndication
// stores, used by tests and the development server.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campusweb/trust-syndication/pkg/trustsyndication"
)

// Repository implements trustsyndication.MetadataStore,
// trustsyndication.ContentStore, trustsyndication.TopicResolver and
// trustsyndication.ContactDirectory using in-memory storage.
type Repository struct {
	mu       sync.RWMutex
	metadata map[uuid.UUID]*trustsyndication.TrustMetadata
	items    map[uuid.UUID]*trustsyndication.ContentItem
	topics   []trustsyndication.Topic
	contacts []trustsyndication.Contact
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		metadata: make(map[uuid.UUID]*trustsyndication.TrustMetadata),
		items:    make(map[uuid.UUID]*trustsyndication.ContentItem),
	}
}

// Metadata operations

func (r *Repository) Get(ctx context.Context, itemID uuid.UUID) (*trustsyndication.TrustMetadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metadata, exists := r.metadata[itemID]
	if !exists {
		return nil, trustsyndication.ErrMetadataNotFound
	}
	return copyMetadata(metadata), nil
}

func (r *Repository) Upsert(ctx context.Context, metadata *trustsyndication.TrustMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyMetadata(metadata)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = stored.CreatedAt
	}

	// The edit path never writes counters: an existing record keeps its
	// analytics fields whatever the caller passed in.
	if existing, exists := r.metadata[metadata.ItemID]; exists {
		stored.ConsumerSites = existing.ConsumerSites
		stored.TotalViews = existing.TotalViews
		stored.ConsumerSitesList = existing.ConsumerSitesList
		stored.CreatedAt = existing.CreatedAt
	}

	r.metadata[metadata.ItemID] = stored
	return nil
}

func (r *Repository) UpdateAnalytics(ctx context.Context, itemID uuid.UUID, fn func(*trustsyndication.SyndicationAnalytics) error) (*trustsyndication.SyndicationAnalytics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	metadata, exists := r.metadata[itemID]
	if !exists {
		return nil, trustsyndication.ErrMetadataNotFound
	}

	analytics := metadata.Analytics()
	if err := fn(&analytics); err != nil {
		return nil, err
	}

	metadata.ConsumerSites = analytics.ConsumerSites
	metadata.TotalViews = analytics.TotalViews
	metadata.ConsumerSitesList = analytics.SitesList
	metadata.UpdatedAt = time.Now().UTC()

	return &analytics, nil
}

func (r *Repository) ListSyndicated(ctx context.Context) ([]*trustsyndication.TrustMetadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*trustsyndication.TrustMetadata
	for _, metadata := range r.metadata {
		if metadata.TrustSyndicationEnabled {
			result = append(result, copyMetadata(metadata))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

func (r *Repository) List(ctx context.Context) (map[uuid.UUID]*trustsyndication.TrustMetadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[uuid.UUID]*trustsyndication.TrustMetadata, len(r.metadata))
	for id, metadata := range r.metadata {
		result[id] = copyMetadata(metadata)
	}
	return result, nil
}

// Content operations

// AddContentItem seeds a content item.
func (r *Repository) AddContentItem(item *trustsyndication.ContentItem) {
	r.mu.Lock()
	defer r.mu.Unlock()

	itemCopy := *item
	if itemCopy.CreatedAt.IsZero() {
		itemCopy.CreatedAt = time.Now().UTC()
	}
	r.items[item.ID] = &itemCopy
}

// RemoveContentItem deletes a seeded content item, leaving any trust record
// orphaned (the feed skips such records).
func (r *Repository) RemoveContentItem(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*trustsyndication.ContentItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[id]
	if !exists {
		return nil, trustsyndication.ErrContentNotFound
	}
	itemCopy := *item
	return &itemCopy, nil
}

func (r *Repository) ListContent(ctx context.Context) ([]*trustsyndication.ContentItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*trustsyndication.ContentItem, 0, len(r.items))
	for _, item := range r.items {
		itemCopy := *item
		result = append(result, &itemCopy)
	}

	// Newest first, matching the host system's content listing
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// Topic operations

// AddTopic seeds a trust-topics vocabulary term.
func (r *Repository) AddTopic(topic trustsyndication.Topic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics = append(r.topics, topic)
}

func (r *Repository) ListTopics(ctx context.Context) ([]trustsyndication.Topic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]trustsyndication.Topic, len(r.topics))
	copy(result, r.topics)
	return result, nil
}

func (r *Repository) NamesFor(ctx context.Context, ids []int64) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byID := make(map[int64]string, len(r.topics))
	for _, topic := range r.topics {
		byID[topic.ID] = topic.Name
	}

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, exists := byID[id]; exists {
			names = append(names, name)
		}
	}
	return names, nil
}

// Contact operations

// AddContact seeds a developer-role account.
func (r *Repository) AddContact(contact trustsyndication.Contact) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts = append(r.contacts, contact)
}

func (r *Repository) DeveloperContacts(ctx context.Context) ([]trustsyndication.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]trustsyndication.Contact, len(r.contacts))
	copy(result, r.contacts)
	return result, nil
}

func copyMetadata(metadata *trustsyndication.TrustMetadata) *trustsyndication.TrustMetadata {
	metadataCopy := *metadata
	metadataCopy.TrustTopics = append([]int64(nil), metadata.TrustTopics...)
	return &metadataCopy
}

// contentStore and topicResolver adapters: the Repository method names for
// content items and topics differ from the interface names so all four
// implementations can live on one type.

// ContentStore returns the repository as a trustsyndication.ContentStore.
func (r *Repository) ContentStore() trustsyndication.ContentStore {
	return contentStore{r}
}

// TopicResolver returns the repository as a trustsyndication.TopicResolver.
func (r *Repository) TopicResolver() trustsyndication.TopicResolver {
	return topicResolver{r}
}

type contentStore struct{ r *Repository }

func (s contentStore) Get(ctx context.Context, id uuid.UUID) (*trustsyndication.ContentItem, error) {
	return s.r.GetContent(ctx, id)
}

func (s contentStore) List(ctx context.Context) ([]*trustsyndication.ContentItem, error) {
	return s.r.ListContent(ctx)
}

type topicResolver struct{ r *Repository }

func (t topicResolver) List(ctx context.Context) ([]trustsyndication.Topic, error) {
	return t.r.ListTopics(ctx)
}

func (t topicResolver) NamesFor(ctx context.Context, ids []int64) ([]string, error) {
	return t.r.NamesFor(ctx, ids)
}
