package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/seat-storefront/internal/coordinator/checkoutlog"
)

func openTemp(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "checkout.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepository_SaveAndHistory(t *testing.T) {
	ctx := context.Background()
	repo := openTemp(t)

	require.NoError(t, repo.Save(ctx, checkoutlog.NewEntry(ctx, "a-1", checkoutlog.StatusStarted, "", `{"cartItems":[]}`, nil)))
	require.NoError(t, repo.Save(ctx, checkoutlog.NewEntry(ctx, "a-1", checkoutlog.StatusStepDone, "Submit_Order_Step", "", nil)))
	require.NoError(t, repo.Save(ctx, checkoutlog.NewEntry(ctx, "a-2", checkoutlog.StatusStarted, "", "", nil)))
	require.NoError(t, repo.Save(ctx, checkoutlog.NewEntry(ctx, "a-1", checkoutlog.StatusFailed, "Clear_Cart_Step", "", []string{"boom"})))

	history, err := repo.History(ctx, "a-1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, checkoutlog.StatusStarted, history[0].Status)
	assert.Equal(t, `{"cartItems":[]}`, history[0].Payload)
	assert.Equal(t, "", history[1].Payload)
	assert.Equal(t, "[]", history[1].ErrorMessages)

	latest, err := repo.GetLatest(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, checkoutlog.StatusFailed, latest.Status)
	assert.Equal(t, "Clear_Cart_Step", latest.CurrentStep)
	assert.Equal(t, `["boom"]`, latest.ErrorMessages)
	assert.False(t, latest.UpdatedAt.IsZero())
}

func TestRepository_GetLatestUnknown(t *testing.T) {
	repo := openTemp(t)
	_, err := repo.GetLatest(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_ReopenKeepsRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "checkout.db")

	repo, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, checkoutlog.NewEntry(ctx, "a-1", checkoutlog.StatusCompleted, "", "", nil)))
	require.NoError(t, repo.Close())

	repo, err = Open(path)
	require.NoError(t, err)
	defer repo.Close()

	latest, err := repo.GetLatest(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, checkoutlog.StatusCompleted, latest.Status)
}
