package domain_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/wsm/internal/core/domain"
)

func TestNewItemIDs(t *testing.T) {
	ids := domain.NewItemIDs([]string{" 450814997 ", "", "463939057", "450814997"})
	assert.Equal(t, []domain.ItemID{"450814997", "463939057"}, ids)
}

func TestVersion(t *testing.T) {
	v1 := domain.Version(1_600_000_000)
	v2 := domain.Version(1_700_000_000)

	assert.True(t, v2.NewerThan(v1))
	assert.False(t, v1.NewerThan(v2))
	assert.False(t, v1.NewerThan(v1))

	assert.Equal(t, "unknown", domain.Version(0).String())
	assert.Equal(t, "2020-09-13T12:26:40Z", v1.String())
	assert.Equal(t, v1, domain.VersionFromTime(v1.Time()))
	assert.Equal(t, domain.Version(0), domain.VersionFromTime(time.Time{}))
}

func TestLocalState(t *testing.T) {
	s := domain.NewLocalState()
	assert.Equal(t, 0, s.Len())

	s.Put(domain.InstalledItem{ID: "b", Size: 20})
	s.Put(domain.InstalledItem{ID: "a", Size: 10})
	s.Put(domain.InstalledItem{ID: "a", Size: 15, Title: "overwritten"})

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []domain.ItemID{"a", "b"}, s.IDs())
	assert.Equal(t, int64(35), s.TotalSize())

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "overwritten", got.Title)

	clone := s.Clone()
	assert.True(t, s.Delete("a"))
	assert.False(t, s.Delete("a"))
	assert.False(t, s.Has("a"))
	assert.True(t, clone.Has("a"), "clone must not share storage")

	var seen []domain.ItemID
	for item := range clone.All() {
		seen = append(seen, item.ID)
	}
	assert.Equal(t, []domain.ItemID{"a", "b"}, seen)
}

func TestPlan(t *testing.T) {
	p := &domain.Plan{
		Requested:    []domain.Item{{ID: "a", Size: 100}},
		Dependencies: []domain.Item{{ID: "b", Size: 50}},
		Satisfied:    []domain.ItemID{"c"},
	}

	assert.False(t, p.IsEmpty())
	assert.Equal(t, int64(150), p.Size())

	actions := p.Actions()
	require.Len(t, actions, 2)
	assert.Equal(t, domain.ActionInstall, actions[0].Kind)
	assert.Equal(t, []domain.ItemID{"a", "b"}, domain.ActionIDs(actions))
	require.NotNil(t, actions[1].Item)
	assert.Equal(t, domain.ItemID("b"), actions[1].Item.ID)

	assert.True(t, (&domain.Plan{Satisfied: []domain.ItemID{"c"}}).IsEmpty())
}

func TestSettings_With(t *testing.T) {
	s := domain.Settings{}

	s2, err := s.With(domain.SettingAppID, "107410")
	require.NoError(t, err)
	assert.Equal(t, "107410", s2.AppID)
	assert.Empty(t, s.AppID, "With must not mutate the receiver")

	_, err = s.With(domain.SettingAppID, "arma")
	require.ErrorIs(t, err, domain.ErrInvalidSetting)

	_, err = s.With(domain.SettingLogin, "  ")
	require.ErrorIs(t, err, domain.ErrInvalidSetting)

	dir := t.TempDir()
	s3, err := s.With(domain.SettingInstallDir, dir)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(s3.InstallDir))
}

func TestSettings_Require(t *testing.T) {
	s := domain.Settings{AppID: "107410"}

	require.NoError(t, s.Require(domain.SettingAppID))

	err := s.Require(domain.SettingAppID, domain.SettingInstallDir)
	require.ErrorIs(t, err, domain.ErrConfigMissing)
	assert.Contains(t, err.Error(), "install_dir is not set")
}

func TestSettings_ContentDir(t *testing.T) {
	s := domain.Settings{InstallDir: "/srv/arma", AppID: "107410"}
	assert.Equal(t,
		filepath.Join("/srv/arma", "steamapps", "workshop", "content", "107410", "450814997"),
		s.ContentDir("450814997"),
	)
}

func TestParseSettingKey(t *testing.T) {
	key, err := domain.ParseSettingKey("AppID")
	require.NoError(t, err)
	assert.Equal(t, domain.SettingAppID, key)

	_, err = domain.ParseSettingKey("password")
	require.ErrorIs(t, err, domain.ErrUnknownSetting)
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "512 B", want: 512},
		{in: "1 KB", want: 1024},
		{in: "1.5 MB", want: 1572864},
		{in: "1,024 MB", want: 1073741824},
		{in: "2 gb", want: 2147483648},
		{in: "12", wantErr: true},
		{in: "12 PB", wantErr: true},
		{in: "x MB", wantErr: true},
		{in: "-1 MB", wantErr: true},
		{in: "NaN MB", wantErr: true},
		{in: "Inf MB", wantErr: true},
		{in: "+Inf GB", wantErr: true},
		{in: "8388608 TB", wantErr: true},
		{in: "1e300 B", wantErr: true},
		{in: "8388607 TB", want: 9223370937343148032},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseSize(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidSize)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0.00 MB", domain.FormatSize(0))
	assert.Equal(t, "1.50 MB", domain.FormatSize(1572864))
	assert.Equal(t, "1.00 MB", domain.FormatSize(domain.Mebibyte))
}
