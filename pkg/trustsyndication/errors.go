package trustsyndication

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrMetadataNotFound indicates no trust metadata record exists for an item
	ErrMetadataNotFound = errors.New("trust metadata not found")

	// ErrContentNotFound indicates the owning content item was not found
	ErrContentNotFound = errors.New("content item not found")

	// ErrSyndicationNotEnabled indicates the item is not opted into syndication
	ErrSyndicationNotEnabled = errors.New("syndication not enabled")

	// ErrInvalidTrustRole indicates a trust role outside the allowed values
	ErrInvalidTrustRole = errors.New("invalid trust role")

	// ErrInvalidTrustScope indicates a trust scope outside the allowed values
	ErrInvalidTrustScope = errors.New("invalid trust scope")

	// ErrInvalidTimeliness indicates a timeliness outside the allowed values
	ErrInvalidTimeliness = errors.New("invalid timeliness")

	// ErrInvalidAudience indicates an audience outside the allowed values
	ErrInvalidAudience = errors.New("invalid audience")

	// ErrConsumerSiteRequired indicates a view report without a resolvable
	// consumer-site identifier
	ErrConsumerSiteRequired = errors.New("consumer site identifier required")
)

// MetadataError represents an error in a trust metadata operation.
type MetadataError struct {
	ItemID uuid.UUID
	Op     string
	Err    error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("trust metadata operation %s failed for item %s: %v", e.Op, e.ItemID, e.Err)
}

func (e *MetadataError) Unwrap() error {
	return e.Err
}

// FeedError represents an error while assembling the syndication feed.
type FeedError struct {
	Op  string
	Err error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("syndication feed operation %s failed: %v", e.Op, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}
