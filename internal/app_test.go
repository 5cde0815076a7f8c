package internal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/pomotask/internal/cli"
	"github.com/valter-silva-au/pomotask/internal/core"
	"github.com/valter-silva-au/pomotask/internal/observability"
	"github.com/valter-silva-au/pomotask/internal/storage"
	"github.com/valter-silva-au/pomotask/pkg/models"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, core.ConfigFileName+".yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestApp(t *testing.T, dir string) *App {
	t.Helper()
	app, err := NewApp(dir)
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestResolveBasePath_HomeSet(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("POMOTASK_HOME", tmpDir)

	if got := ResolveBasePath(); got != tmpDir {
		t.Errorf("ResolveBasePath() = %q, want %q", got, tmpDir)
	}
}

func TestResolveBasePath_FindsConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "sub", "nested")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, tmpDir, "timer:\n  focus_minutes: 30\n")

	t.Setenv("POMOTASK_HOME", "")
	t.Chdir(subDir)

	got := ResolveBasePath()
	// macOS temp dirs are symlinked; compare resolved paths.
	want, _ := filepath.EvalSymlinks(tmpDir)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != want {
		t.Errorf("ResolveBasePath() = %q, want %q (should find config in parent)", got, tmpDir)
	}
}

func TestResolveBasePath_FallbackToUserConfigDir(t *testing.T) {
	cfgHome := t.TempDir()
	t.Setenv("POMOTASK_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	t.Setenv("HOME", cfgHome)
	t.Chdir(t.TempDir())

	got := ResolveBasePath()
	if filepath.Base(got) != "pomotask" {
		t.Errorf("ResolveBasePath() = %q, want a pomotask directory under the user config dir", got)
	}
}

func TestNewApp_Defaults(t *testing.T) {
	dir := t.TempDir()
	app := newTestApp(t, dir)

	if app.Config.Timer.FocusMinutes != 25 || app.Config.Timer.BreakMinutes != 15 {
		t.Errorf("unexpected timer defaults: %+v", app.Config.Timer)
	}
	if app.Config.Store.Backend != models.StoreBackendFile {
		t.Errorf("expected file backend by default, got %q", app.Config.Store.Backend)
	}
	if app.TaskMgr == nil || app.IdentityMgr == nil || app.ImagePicker == nil {
		t.Fatal("core services should be wired")
	}
	if app.EventLog == nil || app.MetricsCalc == nil {
		t.Error("event log should be created in a writable directory")
	}
	if cli.TaskMgr != app.TaskMgr || cli.IdentityMgr != app.IdentityMgr || cli.Config != app.Config {
		t.Error("CLI package variables should point at the app services")
	}
}

func TestNewApp_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "timer:\n  focus_minutes: 0\nstore:\n  backend: etcd\n")

	_, err := NewApp(dir)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"timer.focus_minutes", "store.backend"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestNewApp_IdentitySurvivesRestart(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "store:\n  backend: "+backend+"\n")

			first, err := NewApp(dir)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := first.IdentityMgr.Submit(context.Background(), core.IdentityDraft{Username: "Ada"}); err != nil {
				t.Fatal(err)
			}
			if err := first.Close(); err != nil {
				t.Fatalf("Close() error: %v", err)
			}

			second := newTestApp(t, dir)
			id, found, err := second.IdentityMgr.Load(context.Background())
			if err != nil || !found || id.Username != "Ada" {
				t.Errorf("Load() = %+v, %v, %v; want Ada", id, found, err)
			}
		})
	}
}

func TestNewApp_TaskPersistence(t *testing.T) {
	tests := []struct {
		name    string
		persist bool
		want    int
	}{
		{"persisted", true, 1},
		{"process lifetime", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.persist {
				writeConfig(t, dir, "tasks:\n  persist: true\n")
			}

			first, err := NewApp(dir)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := first.TaskMgr.AddTask(context.Background(), "Buy milk"); err != nil {
				t.Fatal(err)
			}
			_ = first.Close()

			second := newTestApp(t, dir)
			if got := second.TaskMgr.Counts().Total; got != tt.want {
				t.Errorf("expected %d tasks after restart, got %d", tt.want, got)
			}
		})
	}
}

func TestNewApp_EventsReachMetrics(t *testing.T) {
	dir := t.TempDir()
	app := newTestApp(t, dir)

	task, err := app.TaskMgr.AddTask(context.Background(), "Write report")
	if err != nil {
		t.Fatal(err)
	}
	if err := app.TaskMgr.ToggleComplete(context.Background(), task.ID); err != nil {
		t.Fatal(err)
	}

	m, err := app.MetricsCalc.Calculate(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if m.TasksAdded != 1 || m.TasksCompleted != 1 {
		t.Errorf("unexpected metrics: %+v", m)
	}
	if _, err := os.Stat(filepath.Join(dir, observability.DefaultEventLogName)); err != nil {
		t.Errorf("event log file missing: %v", err)
	}
}

func TestNewApp_StorePathOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "store:\n  backend: file\n  path: data/kv.yaml\n")
	app := newTestApp(t, dir)

	if _, err := app.IdentityMgr.Submit(context.Background(), core.IdentityDraft{Username: "Ada"}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "kv.yaml")); err != nil {
		t.Errorf("expected store at configured path: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, storage.DefaultFileStoreName)); !os.IsNotExist(err) {
		t.Error("default store file should not be created when a path is configured")
	}
}
