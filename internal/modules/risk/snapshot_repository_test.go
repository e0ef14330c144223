package risk

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSnapshotRepo(t *testing.T) *SnapshotRepository {
	t.Helper()
	return NewSnapshotRepository(newTestDB(t, SnapshotSchema), zerolog.New(nil).Level(zerolog.Disabled))
}

func testSnapshot(score float64, at time.Time) *PortfolioSnapshot {
	return &PortfolioSnapshot{
		PortfolioVaR:        1234.5,
		PortfolioVolatility: 0.03,
		RiskScore:           score,
		PositionCount:       2,
		TotalExposure:       20_000,
		ExposureRatio:       0.2,
		Timestamp:           at,
	}
}

func TestSnapshotRepositoryRoundTrip(t *testing.T) {
	repo := newTestSnapshotRepo(t)

	snap := testSnapshot(42.5, time.Now().UTC())
	snap.Alerts = []string{"exposure ratio 0.85 exceeds 0.80"}
	require.NoError(t, repo.Save(snap))
	assert.NotEmpty(t, snap.ID)

	got, err := repo.Latest()
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, snap.ID, got.ID)
	assert.InDelta(t, snap.PortfolioVaR, got.PortfolioVaR, 1e-9)
	assert.InDelta(t, snap.RiskScore, got.RiskScore, 1e-9)
	assert.Equal(t, snap.Alerts, got.Alerts)
}

func TestSnapshotRepositoryLatestEmpty(t *testing.T) {
	repo := newTestSnapshotRepo(t)

	got, err := repo.Latest()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshotRepositoryRecentOrder(t *testing.T) {
	repo := newTestSnapshotRepo(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Save(testSnapshot(float64(i), base.Add(time.Duration(i)*time.Minute))))
	}

	recent, err := repo.Recent(3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.InDelta(t, 4.0, recent[0].RiskScore, 1e-9)
	assert.InDelta(t, 2.0, recent[2].RiskScore, 1e-9)
}

func TestSnapshotRepositoryPrune(t *testing.T) {
	repo := newTestSnapshotRepo(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		snap := testSnapshot(float64(i), base.Add(time.Duration(i)*time.Second))
		snap.ID = fmt.Sprintf("snap-%02d", i)
		require.NoError(t, repo.Save(snap))
	}

	require.NoError(t, repo.Prune(4))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	// The survivors are the newest rows.
	recent, err := repo.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 4)
	assert.Equal(t, "snap-09", recent[0].ID)
}
