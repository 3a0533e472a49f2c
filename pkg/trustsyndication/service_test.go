package trustsyndication_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusweb/trust-syndication/pkg/trustsyndication"
	"github.com/campusweb/trust-syndication/pkg/trustsyndication/repo/memory"
)

func setupTestService(t *testing.T, options ...trustsyndication.Option) (trustsyndication.Service, *memory.Repository) {
	t.Helper()

	repo := memory.New()
	base := []trustsyndication.Option{
		trustsyndication.WithMetadataStore(repo),
		trustsyndication.WithContentStore(repo.ContentStore()),
		trustsyndication.WithTopicResolver(repo.TopicResolver()),
		trustsyndication.WithContactDirectory(repo),
		trustsyndication.WithSiteName(func() string { return "Campus Web" }),
		trustsyndication.WithBaseURL("https://www.example.edu"),
	}
	svc, err := trustsyndication.New(append(base, options...)...)
	require.NoError(t, err)

	return svc, repo
}

func seedArticle(repo *memory.Repository, title string) uuid.UUID {
	id := uuid.New()
	repo.AddContentItem(&trustsyndication.ContentItem{
		ID:          id,
		UUID:        uuid.New(),
		Type:        trustsyndication.ContentTypeArticle,
		Title:       title,
		Path:        "/articles/" + id.String(),
		BodySummary: "A summary of " + title,
	})
	return id
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func rolePtr(r trustsyndication.TrustRole) *trustsyndication.TrustRole { return &r }

func scopePtr(s trustsyndication.TrustScope) *trustsyndication.TrustScope { return &s }

func TestServiceRequiresStores(t *testing.T) {
	_, err := trustsyndication.New()
	assert.Error(t, err)

	repo := memory.New()
	_, err = trustsyndication.New(trustsyndication.WithMetadataStore(repo))
	assert.Error(t, err)
}

func TestGetMetadataReturnsDefaultsWhenUnset(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()
	itemID := seedArticle(repo, "Untracked Article")

	metadata, err := svc.GetMetadata(ctx, itemID)
	require.NoError(t, err)

	assert.Equal(t, itemID, metadata.ItemID)
	assert.Empty(t, metadata.TrustRole)
	assert.Empty(t, metadata.TrustScope)
	assert.Empty(t, metadata.TrustContact)
	assert.Empty(t, metadata.TrustTopics)
	assert.False(t, metadata.TrustSyndicationEnabled)
	assert.Zero(t, metadata.ConsumerSites)
	assert.Zero(t, metadata.TotalViews)
}

func TestUpdateMetadataCreatesRecordWithDefaultContact(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()
	itemID := seedArticle(repo, "New Article")

	repo.AddContact(trustsyndication.Contact{ID: "1", Name: "Dev One", Email: "dev1@example.edu"})
	repo.AddContact(trustsyndication.Contact{ID: "2", Name: "Dev Two", Email: "dev2@example.edu"})

	metadata, err := svc.UpdateMetadata(ctx, trustsyndication.UpdateMetadataRequest{
		ItemID:    itemID,
		TrustRole: rolePtr(trustsyndication.TrustRolePrimarySource),
	})
	require.NoError(t, err)

	assert.Equal(t, trustsyndication.TrustRolePrimarySource, metadata.TrustRole)
	assert.Equal(t, "dev1@example.edu, dev2@example.edu", metadata.TrustContact)
	assert.False(t, metadata.CreatedAt.IsZero())
}

func TestUpdateMetadataMergesPartialFields(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()
	itemID := seedArticle(repo, "Merged Article")

	_, err := svc.UpdateMetadata(ctx, trustsyndication.UpdateMetadataRequest{
		ItemID:       itemID,
		TrustRole:    rolePtr(trustsyndication.TrustRolePrimarySource),
		TrustScope:   scopePtr(trustsyndication.TrustScopeCampusWide),
		TrustContact: strPtr("owner@example.edu"),
		TrustTopics:  []int64{1, 2},
	})
	require.NoError(t, err)

	// A second save touching only the scope keeps everything else.
	metadata, err := svc.UpdateMetadata(ctx, trustsyndication.UpdateMetadataRequest{
		ItemID:     itemID,
		TrustScope: scopePtr(trustsyndication.TrustScopeCollegeLevel),
	})
	require.NoError(t, err)

	assert.Equal(t, trustsyndication.TrustRolePrimarySource, metadata.TrustRole)
	assert.Equal(t, trustsyndication.TrustScopeCollegeLevel, metadata.TrustScope)
	assert.Equal(t, "owner@example.edu", metadata.TrustContact)
	assert.Equal(t, []int64{1, 2}, metadata.TrustTopics)

	// An explicit empty topic list clears the topics.
	metadata, err = svc.UpdateMetadata(ctx, trustsyndication.UpdateMetadataRequest{
		ItemID:      itemID,
		TrustTopics: []int64{},
	})
	require.NoError(t, err)
	assert.Empty(t, metadata.TrustTopics)
}

func TestUpdateMetadataRejectsInvalidEnums(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()
	itemID := seedArticle(repo, "Bad Article")

	_, err := svc.UpdateMetadata(ctx, trustsyndication.UpdateMetadataRequest{
		ItemID:    itemID,
		TrustRole: rolePtr(trustsyndication.TrustRole("celebrity_gossip")),
	})
	assert.ErrorIs(t, err, trustsyndication.ErrInvalidTrustRole)
}

func TestToggleSyndicationKeepsOtherFields(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()
	itemID := seedArticle(repo, "Toggled Article")

	_, err := svc.UpdateMetadata(ctx, trustsyndication.UpdateMetadataRequest{
		ItemID:       itemID,
		TrustRole:    rolePtr(trustsyndication.TrustRoleSecondarySource),
		TrustContact: strPtr("owner@example.edu"),
	})
	require.NoError(t, err)

	metadata, err := svc.ToggleSyndication(ctx, itemID, true)
	require.NoError(t, err)
	assert.True(t, metadata.TrustSyndicationEnabled)
	assert.Equal(t, trustsyndication.TrustRoleSecondarySource, metadata.TrustRole)
	assert.Equal(t, "owner@example.edu", metadata.TrustContact)

	metadata, err = svc.ToggleSyndication(ctx, itemID, false)
	require.NoError(t, err)
	assert.False(t, metadata.TrustSyndicationEnabled)
	assert.Equal(t, trustsyndication.TrustRoleSecondarySource, metadata.TrustRole)
}

func TestToggleSyndicationCreatesRecord(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()
	itemID := seedArticle(repo, "Fresh Article")

	metadata, err := svc.ToggleSyndication(ctx, itemID, true)
	require.NoError(t, err)
	assert.True(t, metadata.TrustSyndicationEnabled)

	stored, err := svc.GetMetadata(ctx, itemID)
	require.NoError(t, err)
	assert.True(t, stored.TrustSyndicationEnabled)
}

func TestListSyndicatedIncludesOnlyEnabledItems(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()

	enabledID := seedArticle(repo, "Enabled Article")
	disabledID := seedArticle(repo, "Disabled Article")

	repo.AddTopic(trustsyndication.Topic{ID: 1, Name: "Admissions"})
	repo.AddTopic(trustsyndication.Topic{ID: 2, Name: "Research"})

	_, err := svc.UpdateMetadata(ctx, trustsyndication.UpdateMetadataRequest{
		ItemID:                  enabledID,
		TrustRole:               rolePtr(trustsyndication.TrustRolePrimarySource),
		TrustContact:            strPtr("owner@example.edu"),
		TrustTopics:             []int64{2, 1},
		TrustSyndicationEnabled: boolPtr(true),
	})
	require.NoError(t, err)

	_, err = svc.UpdateMetadata(ctx, trustsyndication.UpdateMetadataRequest{
		ItemID:    disabledID,
		TrustRole: rolePtr(trustsyndication.TrustRoleUnverified),
	})
	require.NoError(t, err)

	entries, err := svc.ListSyndicated(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, enabledID.String(), entry.ID)
	assert.Equal(t, "Enabled Article", entry.Attributes.Title)
	assert.Equal(t, "https://www.example.edu/articles/"+enabledID.String(), entry.Attributes.URL)
	assert.Equal(t, "A summary of Enabled Article", entry.Attributes.Summary)
	assert.Equal(t, []string{"Research", "Admissions"}, entry.Attributes.TrustTopics)
	assert.Equal(t, "Campus Web", entry.Attributes.ContentAuthority)
	require.Len(t, entry.Attributes.TrustContact, 1)
	assert.Equal(t, "owner@example.edu", entry.Attributes.TrustContact[0].Email)
}

func TestListSyndicatedSkipsOrphanedRecords(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()

	keptID := seedArticle(repo, "Kept Article")
	orphanID := seedArticle(repo, "Orphaned Article")

	for _, id := range []uuid.UUID{keptID, orphanID} {
		_, err := svc.ToggleSyndication(ctx, id, true)
		require.NoError(t, err)
	}

	repo.RemoveContentItem(orphanID)

	entries, err := svc.ListSyndicated(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, keptID.String(), entries[0].ID)
}

func TestResolveContactsFallsBackToDeveloperDirectory(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()

	repo.AddContact(trustsyndication.Contact{ID: "1", Name: "Dev One", Email: "dev1@example.edu"})

	// Stored emails win.
	contacts, err := svc.ResolveContacts(ctx, &trustsyndication.TrustMetadata{
		TrustContact: "a@example.edu, b@example.edu",
	})
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "a@example.edu", contacts[0].Email)
	assert.Equal(t, "b@example.edu", contacts[1].Email)

	// A contact string with no email falls back to the developer role.
	contacts, err = svc.ResolveContacts(ctx, &trustsyndication.TrustMetadata{
		TrustContact: "Web Team",
	})
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "dev1@example.edu", contacts[0].Email)
}

func TestPersonSummaryFallbackChain(t *testing.T) {
	item := &trustsyndication.ContentItem{
		Type: trustsyndication.ContentTypePerson,
		Bio:  "Professor of Linguistics",
	}
	assert.Equal(t, "Professor of Linguistics", item.Summary())

	item.Bio = ""
	item.Description = "Department chair"
	assert.Equal(t, "Department chair", item.Summary())

	item.BodySummary = "Short bio"
	assert.Equal(t, "Short bio", item.Summary())
}

func TestContentAuthorityReflectsCurrentSiteName(t *testing.T) {
	name := "First Name"
	svc, _ := setupTestService(t, trustsyndication.WithSiteName(func() string { return name }))

	assert.Equal(t, "First Name", svc.ContentAuthority())
	name = "Renamed Site"
	assert.Equal(t, "Renamed Site", svc.ContentAuthority())
}
