package trustsyndication

import "github.com/google/uuid"

// UpdateMetadataRequest contains the fields to merge into an item's trust
// record. Nil pointers leave the stored value untouched; the record is
// created with defaults if it does not exist yet.
type UpdateMetadataRequest struct {
	ItemID                  uuid.UUID
	TrustRole               *TrustRole
	TrustScope              *TrustScope
	Type                    *string
	Timeliness              *Timeliness
	Audience                *Audience
	TrustContact            *string
	TrustTopics             []int64 // nil keeps existing topics; empty slice clears them
	TrustSyndicationEnabled *bool
}

// Validate checks every provided enum field against its allowed values.
func (r UpdateMetadataRequest) Validate() error {
	if r.TrustRole != nil && !r.TrustRole.IsValid() {
		return ErrInvalidTrustRole
	}
	if r.TrustScope != nil && !r.TrustScope.IsValid() {
		return ErrInvalidTrustScope
	}
	if r.Timeliness != nil && !r.Timeliness.IsValid() {
		return ErrInvalidTimeliness
	}
	if r.Audience != nil && !r.Audience.IsValid() {
		return ErrInvalidAudience
	}
	return nil
}

// OverviewFilters selects and orders rows for the admin overview listing.
// Filter strings are exact-match for the enum fields, case-insensitive
// substring match for contact, exact match for the syndication flag.
type OverviewFilters struct {
	TrustRole         TrustRole
	TrustScope        TrustScope
	Timeliness        Timeliness
	Audience          Audience
	TrustContact      string
	SyndicationStatus *bool
	SortBy            string // title, type, trust_role, trust_scope, timeliness, audience, trust_contact, trust_syndication_enabled
	SortOrder         string // asc (default) or desc
	Page              int    // zero-based
}

// OverviewRow is one line of the admin overview table.
type OverviewRow struct {
	ItemID            uuid.UUID  `json:"item_id"`
	Title             string     `json:"title"`
	Type              string     `json:"type"`
	TrustRole         TrustRole  `json:"trust_role"`
	TrustScope        TrustScope `json:"trust_scope"`
	Timeliness        Timeliness `json:"timeliness"`
	Audience          Audience   `json:"audience"`
	TrustContact      string     `json:"trust_contact"`
	SyndicationStatus bool       `json:"trust_syndication_enabled"`
}

// OverviewPage is one page of overview rows plus paging info.
type OverviewPage struct {
	Rows     []OverviewRow `json:"rows"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Total    int           `json:"total"`
}
