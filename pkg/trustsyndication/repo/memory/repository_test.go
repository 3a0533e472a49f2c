package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusweb/trust-syndication/pkg/trustsyndication"
)

func TestGetMissingMetadata(t *testing.T) {
	repo := New()

	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, trustsyndication.ErrMetadataNotFound)
}

func TestUpsertRoundTrip(t *testing.T) {
	repo := New()
	ctx := context.Background()
	itemID := uuid.New()

	err := repo.Upsert(ctx, &trustsyndication.TrustMetadata{
		ItemID:      itemID,
		TrustRole:   trustsyndication.TrustRolePrimarySource,
		TrustTopics: []int64{1, 2},
	})
	require.NoError(t, err)

	stored, err := repo.Get(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, trustsyndication.TrustRolePrimarySource, stored.TrustRole)
	assert.Equal(t, []int64{1, 2}, stored.TrustTopics)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestUpsertPreservesAnalyticsCounters(t *testing.T) {
	repo := New()
	ctx := context.Background()
	itemID := uuid.New()

	err := repo.Upsert(ctx, &trustsyndication.TrustMetadata{
		ItemID:                  itemID,
		TrustSyndicationEnabled: true,
	})
	require.NoError(t, err)

	_, err = repo.UpdateAnalytics(ctx, itemID, func(a *trustsyndication.SyndicationAnalytics) error {
		a.RecordView("siteA.example.edu")
		return nil
	})
	require.NoError(t, err)

	// An edit carrying stale (zero) counters must not clobber them.
	err = repo.Upsert(ctx, &trustsyndication.TrustMetadata{
		ItemID:    itemID,
		TrustRole: trustsyndication.TrustRoleSecondarySource,
	})
	require.NoError(t, err)

	stored, err := repo.Get(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, trustsyndication.TrustRoleSecondarySource, stored.TrustRole)
	assert.Equal(t, 1, stored.ConsumerSites)
	assert.Equal(t, int64(1), stored.TotalViews)
	assert.Equal(t, "siteA.example.edu", stored.ConsumerSitesList)
}

func TestUpdateAnalyticsMissingRecord(t *testing.T) {
	repo := New()

	_, err := repo.UpdateAnalytics(context.Background(), uuid.New(), func(a *trustsyndication.SyndicationAnalytics) error {
		a.RecordView("siteA.example.edu")
		return nil
	})
	assert.ErrorIs(t, err, trustsyndication.ErrMetadataNotFound)
}

func TestUpdateAnalyticsSerializesConcurrentWrites(t *testing.T) {
	repo := New()
	ctx := context.Background()
	itemID := uuid.New()

	err := repo.Upsert(ctx, &trustsyndication.TrustMetadata{
		ItemID:                  itemID,
		TrustSyndicationEnabled: true,
	})
	require.NoError(t, err)

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.UpdateAnalytics(ctx, itemID, func(a *trustsyndication.SyndicationAnalytics) error {
				a.RecordView("siteA.example.edu")
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := repo.Get(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, int64(writers), stored.TotalViews)
	assert.Equal(t, 1, stored.ConsumerSites)
}

func TestListSyndicatedFiltersAndOrders(t *testing.T) {
	repo := New()
	ctx := context.Background()

	first := uuid.New()
	second := uuid.New()
	disabled := uuid.New()

	require.NoError(t, repo.Upsert(ctx, &trustsyndication.TrustMetadata{
		ItemID:                  first,
		TrustSyndicationEnabled: true,
	}))
	require.NoError(t, repo.Upsert(ctx, &trustsyndication.TrustMetadata{
		ItemID:                  second,
		TrustSyndicationEnabled: true,
	}))
	require.NoError(t, repo.Upsert(ctx, &trustsyndication.TrustMetadata{
		ItemID: disabled,
	}))

	records, err := repo.ListSyndicated(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, record := range records {
		assert.True(t, record.TrustSyndicationEnabled)
		assert.NotEqual(t, disabled, record.ItemID)
	}
}

func TestCopySemantics(t *testing.T) {
	repo := New()
	ctx := context.Background()
	itemID := uuid.New()

	original := &trustsyndication.TrustMetadata{
		ItemID:      itemID,
		TrustTopics: []int64{1},
	}
	require.NoError(t, repo.Upsert(ctx, original))

	// Mutating the caller's value after the fact must not leak into the store.
	original.TrustTopics[0] = 99
	original.TrustRole = trustsyndication.TrustRoleUnverified

	stored, err := repo.Get(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, stored.TrustTopics)
	assert.Empty(t, stored.TrustRole)

	// And mutating a returned value must not leak either.
	stored.TrustTopics[0] = 42
	again, err := repo.Get(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, again.TrustTopics)
}

func TestTopicNamesPreserveOrderAndSkipUnknown(t *testing.T) {
	repo := New()
	ctx := context.Background()

	repo.AddTopic(trustsyndication.Topic{ID: 1, Name: "Admissions"})
	repo.AddTopic(trustsyndication.Topic{ID: 2, Name: "Research"})

	names, err := repo.NamesFor(ctx, []int64{2, 99, 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Research", "Admissions"}, names)
}

func TestContentStoreAdapter(t *testing.T) {
	repo := New()
	ctx := context.Background()
	store := repo.ContentStore()

	id := uuid.New()
	repo.AddContentItem(&trustsyndication.ContentItem{
		ID:    id,
		Type:  trustsyndication.ContentTypePage,
		Title: "About Us",
	})

	item, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "About Us", item.Title)

	repo.RemoveContentItem(id)
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, trustsyndication.ErrContentNotFound)
}
