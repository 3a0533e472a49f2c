package trustsyndication

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	metadata  MetadataStore
	content   ContentStore
	topics    TopicResolver
	directory ContactDirectory
	siteName  SiteNameFunc
	events    EventSink
	baseURL   string
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithMetadataStore sets the trust metadata store for the service
func WithMetadataStore(store MetadataStore) Option {
	return func(s *service) {
		s.metadata = store
	}
}

// WithContentStore sets the content item store for the service
func WithContentStore(store ContentStore) Option {
	return func(s *service) {
		s.content = store
	}
}

// WithTopicResolver sets the trust-topics resolver for the service
func WithTopicResolver(resolver TopicResolver) Option {
	return func(s *service) {
		s.topics = resolver
	}
}

// WithContactDirectory sets the developer-contact directory for the service
func WithContactDirectory(directory ContactDirectory) Option {
	return func(s *service) {
		s.directory = directory
	}
}

// WithSiteName sets the function providing the global site name
func WithSiteName(fn SiteNameFunc) Option {
	return func(s *service) {
		s.siteName = fn
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.events = sink
	}
}

// WithBaseURL sets the site base URL used to build absolute item URLs
func WithBaseURL(baseURL string) Option {
	return func(s *service) {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		siteName: func() string { return "" },
		events:   NewNoopEventSink(),
	}

	for _, option := range options {
		option(s)
	}

	if s.metadata == nil {
		return nil, fmt.Errorf("metadata store is required")
	}
	if s.content == nil {
		return nil, fmt.Errorf("content store is required")
	}
	if s.topics == nil {
		s.topics = noopTopicResolver{}
	}
	if s.directory == nil {
		s.directory = noopContactDirectory{}
	}

	return s, nil
}

// Metadata operations

func (s *service) GetMetadata(ctx context.Context, itemID uuid.UUID) (*TrustMetadata, error) {
	metadata, err := s.metadata.Get(ctx, itemID)
	if err != nil {
		if errors.Is(err, ErrMetadataNotFound) {
			return emptyMetadata(itemID), nil
		}
		return nil, &MetadataError{ItemID: itemID, Op: "get", Err: err}
	}
	return metadata, nil
}

func (s *service) UpdateMetadata(ctx context.Context, req UpdateMetadataRequest) (*TrustMetadata, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	metadata, err := s.metadata.Get(ctx, req.ItemID)
	if err != nil {
		if !errors.Is(err, ErrMetadataNotFound) {
			return nil, &MetadataError{ItemID: req.ItemID, Op: "update", Err: err}
		}
		metadata = s.newRecord(ctx, req.ItemID)
	}

	if req.TrustRole != nil {
		metadata.TrustRole = *req.TrustRole
	}
	if req.TrustScope != nil {
		metadata.TrustScope = *req.TrustScope
	}
	if req.Type != nil {
		metadata.Type = *req.Type
	}
	if req.Timeliness != nil {
		metadata.Timeliness = *req.Timeliness
	}
	if req.Audience != nil {
		metadata.Audience = *req.Audience
	}
	if req.TrustContact != nil {
		metadata.TrustContact = *req.TrustContact
	}
	if req.TrustTopics != nil {
		metadata.TrustTopics = req.TrustTopics
	}
	if req.TrustSyndicationEnabled != nil {
		metadata.TrustSyndicationEnabled = *req.TrustSyndicationEnabled
	}
	metadata.UpdatedAt = time.Now().UTC()

	if err := s.metadata.Upsert(ctx, metadata); err != nil {
		return nil, &MetadataError{ItemID: req.ItemID, Op: "update", Err: err}
	}

	if err := s.events.MetadataUpdated(ctx, metadata); err != nil {
		slog.Warn("metadata updated event failed", "item_id", req.ItemID, "error", err)
	}

	return metadata, nil
}

func (s *service) ToggleSyndication(ctx context.Context, itemID uuid.UUID, enabled bool) (*TrustMetadata, error) {
	metadata, err := s.metadata.Get(ctx, itemID)
	if err != nil {
		if !errors.Is(err, ErrMetadataNotFound) {
			return nil, &MetadataError{ItemID: itemID, Op: "toggle", Err: err}
		}
		metadata = s.newRecord(ctx, itemID)
	}

	metadata.TrustSyndicationEnabled = enabled
	metadata.UpdatedAt = time.Now().UTC()

	if err := s.metadata.Upsert(ctx, metadata); err != nil {
		return nil, &MetadataError{ItemID: itemID, Op: "toggle", Err: err}
	}

	if err := s.events.SyndicationToggled(ctx, itemID, enabled); err != nil {
		slog.Warn("syndication toggled event failed", "item_id", itemID, "error", err)
	}

	return metadata, nil
}

func (s *service) ListTopics(ctx context.Context) ([]Topic, error) {
	return s.topics.List(ctx)
}

func (s *service) TopicNames(ctx context.Context, ids []int64) ([]string, error) {
	return s.topics.NamesFor(ctx, ids)
}

func (s *service) GetContentItem(ctx context.Context, id uuid.UUID) (*ContentItem, error) {
	return s.content.Get(ctx, id)
}

// newRecord builds a fresh record with defaults: syndication off, zero
// counters, and the contact string derived from the current developer role
// membership.
func (s *service) newRecord(ctx context.Context, itemID uuid.UUID) *TrustMetadata {
	now := time.Now().UTC()
	metadata := emptyMetadata(itemID)
	metadata.CreatedAt = now
	metadata.UpdatedAt = now
	metadata.TrustContact = s.defaultTrustContact(ctx)
	return metadata
}

// defaultTrustContact returns the comma-joined email list of accounts holding
// the developer role.
func (s *service) defaultTrustContact(ctx context.Context) string {
	contacts, err := s.directory.DeveloperContacts(ctx)
	if err != nil {
		slog.Warn("developer contact lookup failed", "error", err)
		return ""
	}
	emails := make([]string, 0, len(contacts))
	for _, c := range contacts {
		if c.Email != "" {
			emails = append(emails, c.Email)
		}
	}
	return strings.Join(emails, ", ")
}

func emptyMetadata(itemID uuid.UUID) *TrustMetadata {
	return &TrustMetadata{
		ItemID:      itemID,
		TrustTopics: []int64{},
	}
}

// Analytics operations

func (s *service) ReportView(ctx context.Context, itemID uuid.UUID, consumerSite string) (*SyndicationAnalytics, error) {
	consumerSite = strings.TrimSpace(consumerSite)
	if consumerSite == "" {
		return nil, ErrConsumerSiteRequired
	}

	metadata, err := s.metadata.Get(ctx, itemID)
	if err != nil {
		if errors.Is(err, ErrMetadataNotFound) {
			return nil, ErrMetadataNotFound
		}
		return nil, &MetadataError{ItemID: itemID, Op: "report_view", Err: err}
	}
	if !metadata.TrustSyndicationEnabled {
		return nil, ErrSyndicationNotEnabled
	}

	analytics, err := s.metadata.UpdateAnalytics(ctx, itemID, func(a *SyndicationAnalytics) error {
		a.RecordView(consumerSite)
		return nil
	})
	if err != nil {
		return nil, &MetadataError{ItemID: itemID, Op: "report_view", Err: err}
	}

	if err := s.events.ViewReported(ctx, itemID, consumerSite); err != nil {
		slog.Warn("view reported event failed", "item_id", itemID, "error", err)
	}

	slog.Info("view reported", "item_id", itemID, "consumer_site", consumerSite,
		"total_views", analytics.TotalViews, "consumer_sites", analytics.ConsumerSites)

	return analytics, nil
}

func (s *service) GetAnalytics(ctx context.Context, itemID uuid.UUID) (*SyndicationAnalytics, error) {
	metadata, err := s.metadata.Get(ctx, itemID)
	if err != nil {
		if errors.Is(err, ErrMetadataNotFound) {
			return &SyndicationAnalytics{}, nil
		}
		return nil, &MetadataError{ItemID: itemID, Op: "get_analytics", Err: err}
	}
	analytics := metadata.Analytics()
	return &analytics, nil
}

// Feed operations

func (s *service) ListSyndicated(ctx context.Context) ([]FeedEntry, error) {
	records, err := s.metadata.ListSyndicated(ctx)
	if err != nil {
		return nil, &FeedError{Op: "list", Err: err}
	}

	entries := make([]FeedEntry, 0, len(records))
	for _, record := range records {
		if !record.TrustSyndicationEnabled {
			continue
		}

		item, err := s.content.Get(ctx, record.ItemID)
		if err != nil {
			if errors.Is(err, ErrContentNotFound) {
				slog.Debug("skipping syndicated record without content item", "item_id", record.ItemID)
				continue
			}
			return nil, &FeedError{Op: "list", Err: err}
		}

		contacts, err := s.ResolveContacts(ctx, record)
		if err != nil {
			return nil, &FeedError{Op: "list", Err: err}
		}

		topicNames, err := s.topics.NamesFor(ctx, record.TrustTopics)
		if err != nil {
			return nil, &FeedError{Op: "list", Err: err}
		}

		entries = append(entries, FeedEntry{
			ID:   item.ID.String(),
			Type: item.Type,
			UUID: item.UUID.String(),
			Attributes: FeedAttributes{
				Title:                   item.Title,
				URL:                     s.absoluteURL(item.Path),
				Summary:                 item.Summary(),
				Abstract:                item.Abstract,
				TrustRole:               record.TrustRole,
				TrustScope:              record.TrustScope,
				Type:                    record.Type,
				Timeliness:              record.Timeliness,
				Audience:                record.Audience,
				TrustContact:            contacts,
				TrustTopics:             topicNames,
				TrustSyndicationEnabled: record.TrustSyndicationEnabled,
				ContentAuthority:        s.siteName(),
			},
		})
	}

	return entries, nil
}

func (s *service) ResolveContacts(ctx context.Context, metadata *TrustMetadata) ([]Contact, error) {
	if metadata != nil && strings.Contains(metadata.TrustContact, "@") {
		var contacts []Contact
		for _, email := range strings.Split(metadata.TrustContact, ",") {
			if email = strings.TrimSpace(email); email != "" {
				contacts = append(contacts, Contact{Email: email})
			}
		}
		return contacts, nil
	}
	return s.directory.DeveloperContacts(ctx)
}

func (s *service) ContentAuthority() string {
	return s.siteName()
}

func (s *service) absoluteURL(path string) string {
	if path == "" {
		return s.baseURL
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.baseURL + path
}
