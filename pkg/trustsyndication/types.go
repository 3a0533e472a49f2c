package trustsyndication

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TrustRole classifies how authoritative a content item is.
type TrustRole string

// Trust role constants (typed). The empty value means "not yet set".
const (
	TrustRolePrimarySource            TrustRole = "primary_source"
	TrustRoleSecondarySource          TrustRole = "secondary_source"
	TrustRoleSubjectMatterContributor TrustRole = "subject_matter_contributor"
	TrustRoleUnverified               TrustRole = "unverified"
)

// IsValid reports whether the role is one of the allowed values or unset.
func (r TrustRole) IsValid() bool {
	switch r {
	case "", TrustRolePrimarySource, TrustRoleSecondarySource,
		TrustRoleSubjectMatterContributor, TrustRoleUnverified:
		return true
	}
	return false
}

// TrustScope classifies how broadly a content item applies.
type TrustScope string

// Trust scope constants (typed).
const (
	TrustScopeDepartmentLevel    TrustScope = "department_level"
	TrustScopeCollegeLevel       TrustScope = "college_level"
	TrustScopeAdministrativeUnit TrustScope = "administrative_unit"
	TrustScopeCampusWide         TrustScope = "campus_wide"
)

// IsValid reports whether the scope is one of the allowed values or unset.
func (s TrustScope) IsValid() bool {
	switch s {
	case "", TrustScopeDepartmentLevel, TrustScopeCollegeLevel,
		TrustScopeAdministrativeUnit, TrustScopeCampusWide:
		return true
	}
	return false
}

// Timeliness tags content with the period it stays relevant.
type Timeliness string

// Timeliness constants (typed).
const (
	TimelinessEvergreen      Timeliness = "evergreen"
	TimelinessFallSemester   Timeliness = "fall_semester"
	TimelinessSpringSemester Timeliness = "spring_semester"
	TimelinessSummerSemester Timeliness = "summer_semester"
	TimelinessWinterSemester Timeliness = "winter_semester"
)

// IsValid reports whether the timeliness is one of the allowed values or unset.
func (t Timeliness) IsValid() bool {
	switch t {
	case "", TimelinessEvergreen, TimelinessFallSemester, TimelinessSpringSemester,
		TimelinessSummerSemester, TimelinessWinterSemester:
		return true
	}
	return false
}

// Audience tags content with its intended reader group.
type Audience string

// Audience constants (typed).
const (
	AudienceStudents Audience = "students"
	AudienceFaculty  Audience = "faculty"
	AudienceStaff    Audience = "staff"
	AudienceAlumni   Audience = "alumni"
)

// IsValid reports whether the audience is one of the allowed values or unset.
func (a Audience) IsValid() bool {
	switch a {
	case "", AudienceStudents, AudienceFaculty, AudienceStaff, AudienceAlumni:
		return true
	}
	return false
}

// Content item types recognized by the summary fallback chain.
const (
	ContentTypeArticle = "article"
	ContentTypePage    = "page"
	ContentTypeEvent   = "event"
	ContentTypePerson  = "person"
)

// TrustMetadata is the trust record for a single content item. At most one
// record exists per item; absence means the item has not been configured yet.
//
// ConsumerSites, TotalViews and ConsumerSitesList are maintained exclusively
// by the view-report path. ConsumerSitesList is the comma-separated set of
// distinct consumer-site identifiers in first-seen order, and ConsumerSites
// always equals the number of unique entries in it.
type TrustMetadata struct {
	ItemID                  uuid.UUID  `json:"item_id"`
	TrustRole               TrustRole  `json:"trust_role"`
	TrustScope              TrustScope `json:"trust_scope"`
	Type                    string     `json:"type,omitempty"`
	Timeliness              Timeliness `json:"timeliness,omitempty"`
	Audience                Audience   `json:"audience,omitempty"`
	TrustContact            string     `json:"trust_contact"`
	TrustTopics             []int64    `json:"trust_topics"`
	TrustSyndicationEnabled bool       `json:"trust_syndication_enabled"`
	ConsumerSites           int        `json:"syndication_consumer_sites"`
	TotalViews              int64      `json:"syndication_total_views"`
	ConsumerSitesList       string     `json:"syndication_consumer_sites_list"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

// Analytics returns the record's counters as a standalone value.
func (m *TrustMetadata) Analytics() SyndicationAnalytics {
	return SyndicationAnalytics{
		ConsumerSites: m.ConsumerSites,
		TotalViews:    m.TotalViews,
		SitesList:     m.ConsumerSitesList,
	}
}

// SyndicationAnalytics holds the per-item view counters.
type SyndicationAnalytics struct {
	ConsumerSites int    `json:"consumer_sites"`
	TotalViews    int64  `json:"total_views"`
	SitesList     string `json:"sites_list"`
}

// RecordView folds one reported view into the counters. The site list is a
// comma-separated set in first-seen order; a repeat site bumps only the view
// count.
func (a *SyndicationAnalytics) RecordView(consumerSite string) {
	sites := ParseSitesList(a.SitesList)

	seen := false
	for _, s := range sites {
		if s == consumerSite {
			seen = true
			break
		}
	}
	if !seen {
		sites = append(sites, consumerSite)
	}

	a.ConsumerSites = len(sites)
	a.TotalViews++
	a.SitesList = strings.Join(sites, ", ")
}

// ParseSitesList splits a serialized consumer-site list into trimmed,
// non-empty entries.
func ParseSitesList(list string) []string {
	if list == "" {
		return nil
	}
	var sites []string
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			sites = append(sites, s)
		}
	}
	return sites
}

// Contact identifies a content maintainer.
type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Topic is a term from the trust-topics vocabulary.
type Topic struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ContentItem is the owning content unit (article, page, event, person
// profile) as seen through the host system's content store. The summary-ish
// fields feed the fallback chain used when assembling the syndication feed.
type ContentItem struct {
	ID          uuid.UUID `json:"id"`
	UUID        uuid.UUID `json:"uuid"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Path        string    `json:"path"`
	BodySummary string    `json:"body_summary,omitempty"`
	Body        string    `json:"body,omitempty"`
	TypeSummary string    `json:"type_summary,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Description string    `json:"description,omitempty"`
	Abstract    string    `json:"abstract,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summary resolves the human summary for the item: body summary, then body
// value, then the type-specific summary, then bio/description for person
// profiles. First non-empty wins.
func (c *ContentItem) Summary() string {
	candidates := []string{c.BodySummary, c.Body, c.TypeSummary}
	if c.Type == ContentTypePerson {
		candidates = append(candidates, c.Bio, c.Description)
	}
	for _, s := range candidates {
		if s != "" {
			return s
		}
	}
	return ""
}

// FeedAttributes is the per-item attribute block of a syndication feed entry.
type FeedAttributes struct {
	Title                   string     `json:"title"`
	URL                     string     `json:"url"`
	Summary                 string     `json:"summary"`
	Abstract                string     `json:"abstract,omitempty"`
	TrustRole               TrustRole  `json:"trust_role"`
	TrustScope              TrustScope `json:"trust_scope"`
	Type                    string     `json:"type,omitempty"`
	Timeliness              Timeliness `json:"timeliness,omitempty"`
	Audience                Audience   `json:"audience,omitempty"`
	TrustContact            []Contact  `json:"trust_contact"`
	TrustTopics             []string   `json:"trust_topics"`
	TrustSyndicationEnabled bool       `json:"trust_syndication_enabled"`
	ContentAuthority        string     `json:"content_authority"`
}

// FeedEntry is one item in the syndication feed.
type FeedEntry struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	UUID       string         `json:"uuid"`
	Attributes FeedAttributes `json:"attributes"`
}
