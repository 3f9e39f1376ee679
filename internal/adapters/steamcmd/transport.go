// Package steamcmd implements the Transport port by driving the steamcmd client.
package steamcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/creack/pty"
	wsmfs "go.trai.ch/wsm/internal/adapters/fs"
	"go.trai.ch/wsm/internal/core/domain"
	"go.trai.ch/wsm/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultBinary is the steamcmd executable looked up on PATH.
	DefaultBinary = "steamcmd"

	successMarker = "Success. Downloaded item"
	errorMarker   = "ERROR!"
	installHint   = "https://developer.valvesoftware.com/wiki/SteamCMD"
	redacted      = "********"
)

var _ ports.Transport = (*Transport)(nil)

// Transport implements ports.Transport using steamcmd under a pseudo terminal.
type Transport struct {
	credentials ports.Credentials
	logger      ports.Logger
	binary      string
}

// New creates a Transport that runs the steamcmd found on PATH.
func New(credentials ports.Credentials, logger ports.Logger) *Transport {
	return newWithBinary(credentials, logger, DefaultBinary)
}

// newWithBinary creates a Transport that runs binary instead of steamcmd (used for testing).
func newWithBinary(credentials ports.Credentials, logger ports.Logger, binary string) *Transport {
	return &Transport{
		credentials: credentials,
		logger:      logger,
		binary:      binary,
	}
}

// Fetch downloads the item with steamcmd and moves it to req.Dest if steamcmd placed it elsewhere.
func (t *Transport) Fetch(ctx context.Context, req ports.FetchRequest) error {
	settings := req.Settings
	if err := settings.Require(domain.SettingLogin, domain.SettingInstallDir, domain.SettingAppID); err != nil {
		return err
	}

	executable, err := exec.LookPath(t.binary)
	if err != nil {
		notFound := zerr.Wrap(domain.ErrSteamCmdNotFound, err.Error())
		return zerr.With(notFound, "hint", installHint)
	}

	password, err := t.credentials.Password(ctx, settings.Login)
	if err != nil {
		return err
	}

	args := commandArgs(settings, req.ID, password)
	t.logger.Debug(t.binary + " " + strings.Join(redact(args, password), " "))

	run, err := t.run(ctx, executable, args)
	if err != nil {
		return zerr.With(err, "id", req.ID.String())
	}
	if !run.succeeded {
		msg := "steamcmd did not report a download"
		if run.lastError != "" {
			msg = run.lastError
		}
		return zerr.With(zerr.Wrap(domain.ErrTransport, msg), "id", req.ID.String())
	}

	downloaded := settings.ContentDir(req.ID)
	if !wsmfs.Exists(downloaded) {
		err := zerr.Wrap(domain.ErrTransport, "content directory missing after download")
		return zerr.With(err, "path", downloaded)
	}

	if filepath.Clean(req.Dest) != filepath.Clean(downloaded) {
		if err := move(downloaded, req.Dest); err != nil {
			return zerr.With(zerr.Wrap(domain.ErrTransport, err.Error()), "path", req.Dest)
		}
	}

	if size, files, err := wsmfs.DirSize(req.Dest); err == nil {
		t.logger.Debug(fmt.Sprintf("%s: %d file(s), %d bytes", req.ID, files, size))
	}
	return nil
}

// Delete removes the item's directory. A missing directory is not an error.
func (t *Transport) Delete(_ context.Context, path string) error {
	if path == "" {
		return nil
	}
	t.logger.Debug("removing " + path)
	if err := os.RemoveAll(path); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrTransport, err.Error()), "path", path)
	}
	return nil
}

type runResult struct {
	succeeded bool
	lastError string
}

func (t *Transport) run(ctx context.Context, executable string, args []string) (runResult, error) {
	var result runResult

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // executable is resolved from PATH

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return result, zerr.Wrap(domain.ErrTransport, "failed to start steamcmd: "+err.Error())
	}

	lines := &lineWriter{onLine: func(line string) {
		t.logger.Debug(line)
		switch {
		case strings.Contains(line, successMarker):
			result.succeeded = true
		case strings.HasPrefix(line, errorMarker):
			result.lastError = line
		}
	}}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		defer func() { _ = lines.Close() }()

		// Reading a pty whose child exited ends with EIO on Linux.
		_, _ = io.Copy(lines, ptmx)
	}()

	waitErr := cmd.Wait()
	<-ioDone

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}
	if waitErr != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		msg := "steamcmd failed"
		if result.lastError != "" {
			msg = result.lastError
		}
		return result, zerr.With(zerr.Wrap(domain.ErrTransport, msg), "exit_code", exitCode)
	}
	return result, nil
}

// commandArgs builds the steamcmd script for downloading one item.
func commandArgs(settings domain.Settings, id domain.ItemID, password string) []string {
	args := []string{"+force_install_dir", settings.InstallDir, "+login", settings.Login}
	if password != "" && !settings.IsAnonymous() {
		args = append(args, password)
	}
	return append(args, "+workshop_download_item", settings.AppID, id.String(), "validate", "+quit")
}

func redact(args []string, secret string) []string {
	if secret == "" {
		return args
	}
	out := make([]string, len(args))
	for i, a := range args {
		if a == secret {
			a = redacted
		}
		out[i] = a
	}
	return out
}

func move(from, to string) error {
	if err := os.MkdirAll(filepath.Dir(to), domain.DirPerm); err != nil {
		return err
	}
	if err := os.RemoveAll(to); err != nil {
		return err
	}
	return os.Rename(from, to)
}

// lineWriter splits a byte stream into lines.
type lineWriter struct {
	onLine func(string)
	buf    []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *lineWriter) Close() error {
	if len(w.buf) > 0 {
		w.emit(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *lineWriter) emit(line []byte) {
	// PTYs may introduce \r.
	msg := strings.TrimRight(string(line), "\r")
	if strings.TrimSpace(msg) == "" {
		return
	}
	w.onLine(msg)
}
