package steamcmd_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/wsm/internal/adapters/steamcmd"
	"go.trai.ch/wsm/internal/core/domain"
	"go.trai.ch/wsm/internal/core/ports"
	"go.trai.ch/wsm/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// fakeSteamCmd parses the steamcmd script arguments into shell variables.
const fakeSteamCmd = `#!/bin/sh
while [ $# -gt 0 ]; do
	case "$1" in
		+force_install_dir) dir="$2"; shift ;;
		+workshop_download_item) app="$2"; id="$3"; shift 2 ;;
	esac
	shift
done
content="$dir/steamapps/workshop/content/$app/$id"
`

type recordingLogger struct {
	*mocks.MockLogger
	mu    sync.Mutex
	lines []string
}

func (r *recordingLogger) debugLines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func newLogger(t *testing.T) *recordingLogger {
	t.Helper()

	r := &recordingLogger{MockLogger: mocks.NewMockLogger(gomock.NewController(t))}
	r.EXPECT().Debug(gomock.Any()).Do(func(msg string) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.lines = append(r.lines, msg)
	}).AnyTimes()
	return r
}

// writeScript creates an executable fake steamcmd. Tests that run it are not
// parallel: a concurrent fork can inherit the open file and cause ETXTBSY.
func writeScript(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "steamcmd")
	require.NoError(t, os.WriteFile(path, []byte(fakeSteamCmd+body), 0o755)) //nolint:gosec // test executable
	return path
}

func anonymousCredentials(t *testing.T) *mocks.MockCredentials {
	t.Helper()

	creds := mocks.NewMockCredentials(gomock.NewController(t))
	creds.EXPECT().Password(gomock.Any(), domain.AnonymousLogin).Return("", nil).AnyTimes()
	return creds
}

func testSettings(t *testing.T) domain.Settings {
	t.Helper()
	return domain.Settings{Login: domain.AnonymousLogin, InstallDir: t.TempDir(), AppID: "107410"}
}

func TestCommandArgs(t *testing.T) {
	t.Parallel()

	settings := domain.Settings{Login: "steamuser", InstallDir: "/srv/arma", AppID: "107410"}
	assert.Equal(t, []string{
		"+force_install_dir", "/srv/arma",
		"+login", "steamuser", "hunter2",
		"+workshop_download_item", "107410", "450814997", "validate",
		"+quit",
	}, steamcmd.CommandArgs(settings, "450814997", "hunter2"))

	settings.Login = domain.AnonymousLogin
	assert.Equal(t, []string{
		"+force_install_dir", "/srv/arma",
		"+login", "anonymous",
		"+workshop_download_item", "107410", "450814997", "validate",
		"+quit",
	}, steamcmd.CommandArgs(settings, "450814997", ""))
}

func TestTransport_Fetch(t *testing.T) {
	binary := writeScript(t, `mkdir -p "$content"
echo "class CfgPatches {};" > "$content/config.cpp"
echo "Redirecting stderr to '/tmp/stderr.txt'"
printf 'Success. Downloaded item %s to "%s" (27 bytes)\r\n' "$id" "$content"
`)
	settings := testSettings(t)
	log := newLogger(t)
	transport := steamcmd.NewWithBinary(anonymousCredentials(t), log, binary)

	err := transport.Fetch(context.Background(), ports.FetchRequest{
		ID:       "450814997",
		Version:  1578844920,
		Dest:     settings.ContentDir("450814997"),
		Settings: settings,
	})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(settings.ContentDir("450814997"), "config.cpp"))
	assert.Contains(t, log.debugLines(), "Redirecting stderr to '/tmp/stderr.txt'")
	assert.Contains(t, log.debugLines(), "450814997: 1 file(s), 21 bytes")
}

func TestTransport_FetchMovesToDest(t *testing.T) {
	binary := writeScript(t, `mkdir -p "$content"
echo "x" > "$content/mod.cpp"
echo "Success. Downloaded item $id"
`)
	settings := testSettings(t)
	dest := filepath.Join(t.TempDir(), "old-install", "450814997")
	require.NoError(t, os.MkdirAll(dest, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "stale.txt"), []byte("old"), 0o600))

	transport := steamcmd.NewWithBinary(anonymousCredentials(t), newLogger(t), binary)
	err := transport.Fetch(context.Background(), ports.FetchRequest{ID: "450814997", Dest: dest, Settings: settings})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dest, "mod.cpp"))
	assert.NoFileExists(t, filepath.Join(dest, "stale.txt"))
	assert.NoDirExists(t, settings.ContentDir("450814997"))
}

func TestTransport_FetchRedactsPassword(t *testing.T) {
	binary := writeScript(t, `mkdir -p "$content"
echo "Success. Downloaded item $id"
`)
	settings := testSettings(t)
	settings.Login = "steamuser"

	creds := mocks.NewMockCredentials(gomock.NewController(t))
	creds.EXPECT().Password(gomock.Any(), "steamuser").Return("hunter2", nil)

	log := newLogger(t)
	transport := steamcmd.NewWithBinary(creds, log, binary)
	err := transport.Fetch(context.Background(), ports.FetchRequest{
		ID: "450814997", Dest: settings.ContentDir("450814997"), Settings: settings,
	})
	require.NoError(t, err)

	for _, line := range log.debugLines() {
		assert.NotContains(t, line, "hunter2")
	}
}

func TestTransport_FetchFailures(t *testing.T) {
	t.Run("ErrorExit", func(t *testing.T) {
		binary := writeScript(t, `echo "ERROR! Download item $id failed (Failure)."
exit 5
`)
		settings := testSettings(t)
		transport := steamcmd.NewWithBinary(anonymousCredentials(t), newLogger(t), binary)

		err := transport.Fetch(context.Background(), ports.FetchRequest{
			ID: "450814997", Dest: settings.ContentDir("450814997"), Settings: settings,
		})
		require.ErrorIs(t, err, domain.ErrTransport)
		assert.Contains(t, err.Error(), "ERROR! Download item 450814997 failed (Failure).")
	})

	t.Run("NoSuccessLine", func(t *testing.T) {
		binary := writeScript(t, `mkdir -p "$content"
`)
		settings := testSettings(t)
		transport := steamcmd.NewWithBinary(anonymousCredentials(t), newLogger(t), binary)

		err := transport.Fetch(context.Background(), ports.FetchRequest{
			ID: "450814997", Dest: settings.ContentDir("450814997"), Settings: settings,
		})
		require.ErrorIs(t, err, domain.ErrTransport)
	})

	t.Run("ContentMissing", func(t *testing.T) {
		binary := writeScript(t, `echo "Success. Downloaded item $id"
`)
		settings := testSettings(t)
		transport := steamcmd.NewWithBinary(anonymousCredentials(t), newLogger(t), binary)

		err := transport.Fetch(context.Background(), ports.FetchRequest{
			ID: "450814997", Dest: settings.ContentDir("450814997"), Settings: settings,
		})
		require.ErrorIs(t, err, domain.ErrTransport)
		assert.Contains(t, err.Error(), "content directory missing")
	})

	t.Run("BinaryMissing", func(t *testing.T) {
		settings := testSettings(t)
		transport := steamcmd.NewWithBinary(anonymousCredentials(t), newLogger(t),
			filepath.Join(t.TempDir(), "no-such-steamcmd"))

		err := transport.Fetch(context.Background(), ports.FetchRequest{
			ID: "450814997", Dest: settings.ContentDir("450814997"), Settings: settings,
		})
		require.ErrorIs(t, err, domain.ErrSteamCmdNotFound)
	})

	t.Run("SettingsMissing", func(t *testing.T) {
		transport := steamcmd.NewWithBinary(anonymousCredentials(t), newLogger(t), "steamcmd")
		err := transport.Fetch(context.Background(), ports.FetchRequest{
			ID: "450814997", Settings: domain.Settings{Login: domain.AnonymousLogin},
		})
		require.ErrorIs(t, err, domain.ErrConfigMissing)
	})

	t.Run("CredentialsMissing", func(t *testing.T) {
		binary := writeScript(t, "")
		settings := testSettings(t)
		settings.Login = "steamuser"

		creds := mocks.NewMockCredentials(gomock.NewController(t))
		creds.EXPECT().Password(gomock.Any(), "steamuser").Return("", domain.ErrCredentialsMissing)

		transport := steamcmd.NewWithBinary(creds, newLogger(t), binary)
		err := transport.Fetch(context.Background(), ports.FetchRequest{
			ID: "450814997", Dest: settings.ContentDir("450814997"), Settings: settings,
		})
		require.ErrorIs(t, err, domain.ErrCredentialsMissing)
	})
}

func TestTransport_Delete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "450814997")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "addons"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "addons", "cba.pbo"), []byte("pbo"), 0o600))

	transport := steamcmd.NewWithBinary(anonymousCredentials(t), newLogger(t), "steamcmd")

	require.NoError(t, transport.Delete(context.Background(), dir))
	assert.NoDirExists(t, dir)

	require.NoError(t, transport.Delete(context.Background(), dir), "deleting twice is fine")
	require.NoError(t, transport.Delete(context.Background(), ""))
}
