package trustsyndication

import (
	"context"
	"sort"
	"strings"
)

// OverviewPageSize is the fixed page size of the admin overview listing.
const OverviewPageSize = 50

// Overview builds one page of the admin listing: every content item joined
// with its trust record (default-empty when unconfigured), filtered, sorted
// case-insensitively and paged at OverviewPageSize.
func (s *service) Overview(ctx context.Context, filters OverviewFilters) (*OverviewPage, error) {
	items, err := s.content.List(ctx)
	if err != nil {
		return nil, &FeedError{Op: "overview", Err: err}
	}

	records, err := s.metadata.List(ctx)
	if err != nil {
		return nil, &FeedError{Op: "overview", Err: err}
	}

	var rows []OverviewRow
	for _, item := range items {
		metadata := records[item.ID]
		if metadata == nil {
			metadata = emptyMetadata(item.ID)
		}

		row := OverviewRow{
			ItemID:            item.ID,
			Title:             item.Title,
			Type:              item.Type,
			TrustRole:         metadata.TrustRole,
			TrustScope:        metadata.TrustScope,
			Timeliness:        metadata.Timeliness,
			Audience:          metadata.Audience,
			TrustContact:      metadata.TrustContact,
			SyndicationStatus: metadata.TrustSyndicationEnabled,
		}

		if !matchesFilters(row, filters) {
			continue
		}
		rows = append(rows, row)
	}

	sortRows(rows, filters.SortBy, filters.SortOrder)

	total := len(rows)
	page := filters.Page
	if page < 0 {
		page = 0
	}
	offset := page * OverviewPageSize
	if offset >= total {
		rows = nil
	} else {
		end := offset + OverviewPageSize
		if end > total {
			end = total
		}
		rows = rows[offset:end]
	}

	if rows == nil {
		rows = []OverviewRow{}
	}

	return &OverviewPage{
		Rows:     rows,
		Page:     page,
		PageSize: OverviewPageSize,
		Total:    total,
	}, nil
}

func matchesFilters(row OverviewRow, filters OverviewFilters) bool {
	if filters.TrustRole != "" && row.TrustRole != filters.TrustRole {
		return false
	}
	if filters.TrustScope != "" && row.TrustScope != filters.TrustScope {
		return false
	}
	if filters.Timeliness != "" && row.Timeliness != filters.Timeliness {
		return false
	}
	if filters.Audience != "" && row.Audience != filters.Audience {
		return false
	}
	if filters.TrustContact != "" &&
		!strings.Contains(strings.ToLower(row.TrustContact), strings.ToLower(filters.TrustContact)) {
		return false
	}
	if filters.SyndicationStatus != nil && row.SyndicationStatus != *filters.SyndicationStatus {
		return false
	}
	return true
}

// sortRows orders rows by a case-insensitive compare over the selected
// field. Stable sort keeps the natural (content listing) order on ties.
func sortRows(rows []OverviewRow, sortBy, sortOrder string) {
	desc := sortOrder == "desc"

	sort.SliceStable(rows, func(i, j int) bool {
		a := strings.ToLower(sortValue(rows[i], sortBy))
		b := strings.ToLower(sortValue(rows[j], sortBy))
		if desc {
			return a > b
		}
		return a < b
	})
}

func sortValue(row OverviewRow, sortBy string) string {
	switch sortBy {
	case "type":
		return row.Type
	case "trust_role":
		return string(row.TrustRole)
	case "trust_scope":
		return string(row.TrustScope)
	case "timeliness":
		return string(row.Timeliness)
	case "audience":
		return string(row.Audience)
	case "trust_contact":
		return row.TrustContact
	case "trust_syndication_enabled":
		if row.SyndicationStatus {
			return "1"
		}
		return "0"
	default:
		return row.Title
	}
}
