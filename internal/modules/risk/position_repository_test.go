package risk

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/helmsman/internal/database"
	"github.com/aristath/helmsman/internal/domain"
)

func newTestDB(t *testing.T, schema string) *sql.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "test.db"),
		Profile: database.ProfileStandard,
		Name:    "test",
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(schema))
	t.Cleanup(func() { _ = db.Close() })

	return db.Conn()
}

func newTestPositionRepo(t *testing.T) *PositionRepository {
	t.Helper()
	return NewPositionRepository(newTestDB(t, PositionSchema), zerolog.New(nil).Level(zerolog.Disabled))
}

func TestPositionRepositoryRoundTrip(t *testing.T) {
	repo := newTestPositionRepo(t)

	pos := NewPosition("AAPL", domain.DirectionBuy, 1000, 10, 0.8, 0.02, nil)
	require.NoError(t, repo.Save(pos))

	got, err := repo.GetBySymbol("AAPL")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, pos.ID, got.ID)
	assert.Equal(t, pos.Direction, got.Direction)
	assert.Equal(t, pos.Status, got.Status)
	assert.InDelta(t, pos.StopLoss, got.StopLoss, 1e-9)
	assert.InDelta(t, pos.TakeProfit, got.TakeProfit, 1e-9)
	// RFC3339 storage is second-granular.
	assert.WithinDuration(t, pos.OpenedAt, got.OpenedAt, 1e9)
	assert.Nil(t, got.ClosedAt)
	assert.Nil(t, got.MaxLossAmount)
}

func TestPositionRepositoryPersistsMaxLoss(t *testing.T) {
	repo := newTestPositionRepo(t)

	budget := 500.0
	pos := NewPosition("AAPL", domain.DirectionBuy, 1000, 10, 0.8, 0.02, &budget)
	require.NoError(t, repo.Save(pos))

	got, err := repo.GetBySymbol("AAPL")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.MaxLossAmount)
	assert.InDelta(t, 500.0, *got.MaxLossAmount, 1e-9)
}

func TestPositionRepositoryNotFound(t *testing.T) {
	repo := newTestPositionRepo(t)

	got, err := repo.GetBySymbol("GHOST")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPositionRepositoryUpsertBySymbol(t *testing.T) {
	repo := newTestPositionRepo(t)

	pos := NewPosition("AAPL", domain.DirectionBuy, 1000, 10, 0.8, 0.02, nil)
	require.NoError(t, repo.Save(pos))

	pos.applyPrice(900)
	pos.close(domain.CloseReasonStopLoss)
	require.NoError(t, repo.Save(pos))

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domain.PositionClosed, all[0].Status)
	assert.Equal(t, domain.CloseReasonStopLoss, all[0].CloseReason)
	require.NotNil(t, all[0].ClosedAt)
}

func TestPositionRepositoryGetActive(t *testing.T) {
	repo := newTestPositionRepo(t)

	open := NewPosition("AAPL", domain.DirectionBuy, 1000, 10, 0.8, 0.02, nil)
	require.NoError(t, repo.Save(open))

	done := NewPosition("MSFT", domain.DirectionSell, 200, 5, 0.6, 0.03, nil)
	done.close(domain.CloseReasonTakeProfit)
	require.NoError(t, repo.Save(done))

	active, err := repo.GetActive()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "AAPL", active[0].Symbol)
}

func TestPositionRepositoryDelete(t *testing.T) {
	repo := newTestPositionRepo(t)

	require.NoError(t, repo.Save(NewPosition("AAPL", domain.DirectionBuy, 1000, 10, 0.8, 0.02, nil)))
	require.NoError(t, repo.Delete("AAPL"))

	got, err := repo.GetBySymbol("AAPL")
	require.NoError(t, err)
	assert.Nil(t, got)
}
