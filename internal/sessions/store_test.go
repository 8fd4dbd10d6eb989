package sessions

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"labels-service/internal/models"
)

func TestRunProgressIsMonotone(t *testing.T) {
	store := NewStore()
	run := store.NewRun("summary.xlsx")

	assert.Equal(t, 0.0, run.Progress())

	run.Begin(4)
	last := run.Progress()
	for i := 0; i < 4; i++ {
		run.RowSeen()
		current := run.Progress()
		assert.GreaterOrEqual(t, current, last)
		last = current
	}
	assert.Equal(t, 1.0, last)

	run.Complete(models.NewAssemblyResult(), nil)
	assert.Equal(t, 1.0, run.Progress())
	assert.Equal(t, models.RunStatusCompleted, run.Status())
}

func TestCompletedRunWithPartialRowsReportsDone(t *testing.T) {
	store := NewStore()
	run := store.NewRun("summary.xlsx")

	run.Begin(10)
	run.RowSeen()
	run.Complete(models.NewAssemblyResult(), []byte("doc"))

	assert.Equal(t, 1.0, run.Progress())
	assert.Equal(t, []byte("doc"), run.Document())
}

func TestRunLookup(t *testing.T) {
	store := NewStore()
	run := store.NewRun("summary.xlsx")

	found, ok := store.GetRun(run.ID)
	require.True(t, ok)
	assert.Equal(t, run, found)

	_, ok = store.GetRun(uuid.New())
	assert.False(t, ok)
}

func TestCatalogSessionLifecycle(t *testing.T) {
	store := NewStore()
	grid := &models.CatalogGrid{ProductID: 7413}
	session := store.NewCatalogSession(7413, grid)

	assert.Equal(t, session.ID.String(), grid.SessionID)

	found, ok := store.GetCatalogSession(session.ID)
	require.True(t, ok)
	assert.Equal(t, int64(7413), found.ProductID)

	assert.True(t, store.DeleteCatalogSession(session.ID))
	_, ok = store.GetCatalogSession(session.ID)
	assert.False(t, ok)
	assert.False(t, store.DeleteCatalogSession(session.ID))
}
