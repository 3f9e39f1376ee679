package synchronizer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/wsm/internal/core/domain"
	"go.trai.ch/wsm/internal/core/ports/mocks"
	"go.trai.ch/wsm/internal/engine/synchronizer"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func setup(t *testing.T) (*synchronizer.Synchronizer, *mocks.MockCatalog) {
	t.Helper()
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalog(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return synchronizer.New(catalog, logger), catalog
}

func installedState() *domain.LocalState {
	return domain.NewLocalStateFrom([]domain.InstalledItem{
		{ID: "current", Version: 200},
		{ID: "stale", Version: 100},
		{ID: "gone", Version: 100},
		{ID: "flaky", Version: 100},
	})
}

func TestDiff_ClassifiesEveryInstalledItem(t *testing.T) {
	s, catalog := setup(t)

	catalog.EXPECT().Lookup(gomock.Any(), domain.ItemID("current")).
		Return(&domain.Item{ID: "current", Version: 200}, nil)
	catalog.EXPECT().Lookup(gomock.Any(), domain.ItemID("stale")).
		Return(&domain.Item{ID: "stale", Version: 300}, nil)
	catalog.EXPECT().Lookup(gomock.Any(), domain.ItemID("gone")).
		Return(nil, zerr.Wrap(domain.ErrItemNotFound, "gone"))
	catalog.EXPECT().Lookup(gomock.Any(), domain.ItemID("flaky")).
		Return(nil, errors.New("timeout"))

	statuses, err := s.Diff(context.Background(), installedState(), nil)
	require.NoError(t, err)
	require.Len(t, statuses, 4)

	byID := make(map[domain.ItemID]domain.ItemStatus)
	for _, st := range statuses {
		byID[st.ID] = st
	}

	assert.Equal(t, domain.StatusUpToDate, byID["current"].Status)
	assert.Equal(t, domain.StatusNeedsUpdate, byID["stale"].Status)
	assert.Equal(t, domain.Version(300), byID["stale"].RemoteVersion)
	assert.Equal(t, domain.Version(100), byID["stale"].CurrentVersion)
	assert.Equal(t, domain.StatusOrphaned, byID["gone"].Status)
	assert.Equal(t, domain.StatusUnreachable, byID["flaky"].Status)
	require.Error(t, byID["flaky"].Err)

	outdated := domain.NeedsUpdate(statuses)
	require.Len(t, outdated, 1)
	assert.Equal(t, domain.ItemID("stale"), outdated[0].ID)
	require.NotNil(t, outdated[0].Remote)
}

func TestDiff_OlderRemoteIsUpToDate(t *testing.T) {
	s, catalog := setup(t)

	catalog.EXPECT().Lookup(gomock.Any(), domain.ItemID("current")).
		Return(&domain.Item{ID: "current", Version: 150}, nil)

	statuses, err := s.Diff(context.Background(), installedState(), []domain.ItemID{"current"})
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, domain.StatusUpToDate, statuses[0].Status)
}

func TestDiff_NotInstalledSkipsCatalog(t *testing.T) {
	s, _ := setup(t)

	statuses, err := s.Diff(context.Background(), installedState(), []domain.ItemID{"unknown"})
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, domain.StatusNotInstalled, statuses[0].Status)
}

func TestDiff_Canceled(t *testing.T) {
	s, _ := setup(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	statuses, err := s.Diff(ctx, installedState(), nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, statuses)
}
