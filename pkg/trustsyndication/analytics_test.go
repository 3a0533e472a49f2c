package trustsyndication_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusweb/trust-syndication/pkg/trustsyndication"
)

func TestReportViewCountsUniqueSites(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()
	itemID := seedArticle(repo, "Viewed Article")

	_, err := svc.ToggleSyndication(ctx, itemID, true)
	require.NoError(t, err)

	analytics, err := svc.ReportView(ctx, itemID, "siteA.example.edu")
	require.NoError(t, err)
	assert.Equal(t, 1, analytics.ConsumerSites)
	assert.Equal(t, int64(1), analytics.TotalViews)
	assert.Equal(t, "siteA.example.edu", analytics.SitesList)

	// A repeat site bumps only the view count.
	analytics, err = svc.ReportView(ctx, itemID, "siteA.example.edu")
	require.NoError(t, err)
	assert.Equal(t, 1, analytics.ConsumerSites)
	assert.Equal(t, int64(2), analytics.TotalViews)
	assert.Equal(t, "siteA.example.edu", analytics.SitesList)

	// A new site joins the list in first-seen order.
	analytics, err = svc.ReportView(ctx, itemID, "siteB.example.edu")
	require.NoError(t, err)
	assert.Equal(t, 2, analytics.ConsumerSites)
	assert.Equal(t, int64(3), analytics.TotalViews)
	assert.Equal(t, "siteA.example.edu, siteB.example.edu", analytics.SitesList)
}

func TestReportViewRequiresConsumerSite(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()
	itemID := seedArticle(repo, "Viewed Article")

	_, err := svc.ToggleSyndication(ctx, itemID, true)
	require.NoError(t, err)

	_, err = svc.ReportView(ctx, itemID, "   ")
	assert.ErrorIs(t, err, trustsyndication.ErrConsumerSiteRequired)
}

func TestReportViewWithoutRecord(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.ReportView(context.Background(), uuid.New(), "siteA.example.edu")
	assert.ErrorIs(t, err, trustsyndication.ErrMetadataNotFound)
}

func TestReportViewWhenSyndicationDisabled(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()
	itemID := seedArticle(repo, "Opted-out Article")

	_, err := svc.UpdateMetadata(ctx, trustsyndication.UpdateMetadataRequest{
		ItemID:    itemID,
		TrustRole: rolePtr(trustsyndication.TrustRolePrimarySource),
	})
	require.NoError(t, err)

	_, err = svc.ReportView(ctx, itemID, "siteA.example.edu")
	assert.ErrorIs(t, err, trustsyndication.ErrSyndicationNotEnabled)

	// The rejected view must not touch the counters.
	analytics, err := svc.GetAnalytics(ctx, itemID)
	require.NoError(t, err)
	assert.Zero(t, analytics.ConsumerSites)
	assert.Zero(t, analytics.TotalViews)
	assert.Empty(t, analytics.SitesList)
}

func TestConcurrentReportViewsLoseNoUpdates(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()
	itemID := seedArticle(repo, "Busy Article")

	_, err := svc.ToggleSyndication(ctx, itemID, true)
	require.NoError(t, err)

	const viewers = 20
	var wg sync.WaitGroup
	for i := 0; i < viewers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ReportView(ctx, itemID, "siteA.example.edu")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	analytics, err := svc.GetAnalytics(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, int64(viewers), analytics.TotalViews)
	assert.Equal(t, 1, analytics.ConsumerSites)
}

func TestGetAnalyticsWithoutRecordReturnsZeros(t *testing.T) {
	svc, _ := setupTestService(t)

	analytics, err := svc.GetAnalytics(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, analytics.ConsumerSites)
	assert.Zero(t, analytics.TotalViews)
	assert.Empty(t, analytics.SitesList)
}

func TestMetadataEditPreservesAnalytics(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()
	itemID := seedArticle(repo, "Edited Article")

	_, err := svc.ToggleSyndication(ctx, itemID, true)
	require.NoError(t, err)

	_, err = svc.ReportView(ctx, itemID, "siteA.example.edu")
	require.NoError(t, err)
	_, err = svc.ReportView(ctx, itemID, "siteB.example.edu")
	require.NoError(t, err)

	_, err = svc.UpdateMetadata(ctx, trustsyndication.UpdateMetadataRequest{
		ItemID:    itemID,
		TrustRole: rolePtr(trustsyndication.TrustRolePrimarySource),
	})
	require.NoError(t, err)

	analytics, err := svc.GetAnalytics(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, 2, analytics.ConsumerSites)
	assert.Equal(t, int64(2), analytics.TotalViews)
	assert.Equal(t, "siteA.example.edu, siteB.example.edu", analytics.SitesList)
}

func TestParseSitesListTrimsEntries(t *testing.T) {
	sites := trustsyndication.ParseSitesList(" siteA.example.edu ,siteB.example.edu,  , ")
	assert.Equal(t, []string{"siteA.example.edu", "siteB.example.edu"}, sites)

	assert.Nil(t, trustsyndication.ParseSitesList(""))
}
