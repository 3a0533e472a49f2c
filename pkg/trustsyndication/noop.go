package trustsyndication

import (
	"context"

	"github.com/google/uuid"
)

// NoopEventSink is an event sink that discards all events
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-op event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (s *NoopEventSink) MetadataUpdated(ctx context.Context, metadata *TrustMetadata) error {
	return nil
}

func (s *NoopEventSink) SyndicationToggled(ctx context.Context, itemID uuid.UUID, enabled bool) error {
	return nil
}

func (s *NoopEventSink) ViewReported(ctx context.Context, itemID uuid.UUID, consumerSite string) error {
	return nil
}

// noopTopicResolver serves an empty vocabulary.
type noopTopicResolver struct{}

func (noopTopicResolver) List(ctx context.Context) ([]Topic, error) {
	return []Topic{}, nil
}

func (noopTopicResolver) NamesFor(ctx context.Context, ids []int64) ([]string, error) {
	return []string{}, nil
}

// noopContactDirectory has no developer accounts.
type noopContactDirectory struct{}

func (noopContactDirectory) DeveloperContacts(ctx context.Context) ([]Contact, error) {
	return []Contact{}, nil
}

// StaticContactDirectory serves a fixed list of developer contacts, typically
// loaded from configuration.
type StaticContactDirectory []Contact

func (d StaticContactDirectory) DeveloperContacts(ctx context.Context) ([]Contact, error) {
	contacts := make([]Contact, len(d))
	copy(contacts, d)
	return contacts, nil
}
