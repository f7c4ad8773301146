package migrate

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

func TestCreateSQLMigrationUsesClockAndSlug(t *testing.T) {
	orig := now
	now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })

	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "  Add Handoff Status! ")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if filepath.Base(path) != "20260301090000_add_handoff_status.sql" {
		t.Fatalf("unexpected file name %s", filepath.Base(path))
	}
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if !strings.Contains(string(body), "-- add_handoff_status") {
		t.Fatalf("template missing slug: %s", body)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}

	if _, err := CreateSQLMigration(dir, "add handoff status"); err == nil {
		t.Fatalf("expected error when the file already exists")
	}
	if _, err := CreateSQLMigration(dir, "!!!"); err == nil {
		t.Fatalf("expected error for empty slug")
	}
}

func TestValidateFSChecksAnnotations(t *testing.T) {
	cases := map[string]struct {
		files   fstest.MapFS
		wantErr string
	}{
		"ok": {
			files: fstest.MapFS{"20260301090000_a.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n-- +goose Down\nSELECT 1;\n")}},
		},
		"missing down": {
			files:   fstest.MapFS{"20260301090000_a.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")}},
			wantErr: "missing",
		},
		"down first": {
			files:   fstest.MapFS{"20260301090000_a.sql": {Data: []byte("-- +goose Down\n-- +goose Up\n")}},
			wantErr: "must come before",
		},
		"duplicate version": {
			files: fstest.MapFS{
				"20260301090000_a.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
				"20260301090000_b.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
			},
			wantErr: "duplicate migration version",
		},
		"ignores other files": {
			files: fstest.MapFS{"README.md": {Data: []byte("notes")}},
		},
	}
	for name, tc := range cases {
		err := ValidateFS(tc.files)
		if tc.wantErr == "" && err != nil {
			t.Fatalf("%s: unexpected error %v", name, err)
		}
		if tc.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tc.wantErr)) {
			t.Fatalf("%s: expected error containing %q, got %v", name, tc.wantErr, err)
		}
	}
}

func TestEmbeddedMigrationsValidate(t *testing.T) {
	sub, err := fs.Sub(Embedded(), "migrations")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	if err := ValidateFS(sub); err != nil {
		t.Fatalf("embedded migrations invalid: %v", err)
	}
}
