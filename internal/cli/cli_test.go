package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"file-categorizer/internal/store"
)

// execute runs the root command with args against an isolated home and
// database, returning combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func setupEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("FILECAT_DATABASE_PATH", filepath.Join(home, "files.db"))
	return home
}

func writeFixtures(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to write fixture %s: %v", name, err)
		}
	}
	return dir
}

func TestScanThenList(t *testing.T) {
	setupEnv(t)
	dir := writeFixtures(t, "a.jpg", "b.svg", "notes.txt")

	out, err := execute(t, "scan", dir)
	if err != nil {
		t.Fatalf("scan failed: %v\n%s", err, out)
	}

	out, err = execute(t, "list", "--format", "json")
	if err != nil {
		t.Fatalf("list failed: %v\n%s", err, out)
	}

	var records []store.FileRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("list output is not JSON: %v\n%s", err, out)
	}
	if len(records) != 2 {
		t.Fatalf("listed %d records, want 2", len(records))
	}
}

func TestScanMissingDirectory(t *testing.T) {
	setupEnv(t)

	if _, err := execute(t, "scan", filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("scan of missing directory succeeded, want error")
	}
}

func TestSearchByCategory(t *testing.T) {
	setupEnv(t)
	dir := writeFixtures(t, "a.jpg", "b.svg")

	if out, err := execute(t, "scan", dir); err != nil {
		t.Fatalf("scan failed: %v\n%s", err, out)
	}

	out, err := execute(t, "search", "--category", "graphics", "--format", "json")
	if err != nil {
		t.Fatalf("search failed: %v\n%s", err, out)
	}

	var records []store.FileRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("search output is not JSON: %v\n%s", err, out)
	}
	if len(records) != 1 || records[0].Filename != "a.jpg" {
		t.Errorf("unexpected search results: %+v", records)
	}
}

func TestSearchInvalidCategory(t *testing.T) {
	setupEnv(t)

	if _, err := execute(t, "search", "--category", "audio"); err == nil {
		t.Error("search with invalid category succeeded, want error")
	}
}

func TestRemoveRecord(t *testing.T) {
	setupEnv(t)
	dir := writeFixtures(t, "a.jpg")

	if out, err := execute(t, "scan", dir); err != nil {
		t.Fatalf("scan failed: %v\n%s", err, out)
	}

	out, err := execute(t, "list", "--format", "json")
	if err != nil {
		t.Fatalf("list failed: %v\n%s", err, out)
	}
	var records []store.FileRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("list output is not JSON: %v", err)
	}

	if out, err := execute(t, "remove", records[0].ID); err != nil {
		t.Fatalf("remove failed: %v\n%s", err, out)
	}

	if _, err := execute(t, "remove", records[0].ID); err == nil {
		t.Error("removing the same record twice succeeded, want error")
	}
}

func TestCleanupDryRunThenPurge(t *testing.T) {
	setupEnv(t)
	dir := writeFixtures(t, "a.jpg", "b.svg")

	if out, err := execute(t, "scan", dir); err != nil {
		t.Fatalf("scan failed: %v\n%s", err, out)
	}
	if err := os.Remove(filepath.Join(dir, "b.svg")); err != nil {
		t.Fatalf("failed to delete fixture: %v", err)
	}

	if out, err := execute(t, "cleanup", "--dry-run", "--purge"); err != nil {
		t.Fatalf("cleanup dry run failed: %v\n%s", err, out)
	}

	// Dry run leaves both records in place.
	out, err := execute(t, "list", "--format", "json")
	if err != nil {
		t.Fatalf("list failed: %v\n%s", err, out)
	}
	var records []store.FileRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("list output is not JSON: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("dry run changed record count to %d", len(records))
	}

	if out, err := execute(t, "cleanup", "--purge"); err != nil {
		t.Fatalf("cleanup purge failed: %v\n%s", err, out)
	}

	out, err = execute(t, "list", "--format", "json")
	if err != nil {
		t.Fatalf("list failed: %v\n%s", err, out)
	}
	records = nil
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("list output is not JSON: %v", err)
	}
	if len(records) != 1 || records[0].Filename != "a.jpg" {
		t.Errorf("unexpected records after purge: %+v", records)
	}
}

func TestConfigShow(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v\n%s", err, out)
	}
	if !bytes.Contains([]byte(out), []byte("database:")) {
		t.Errorf("config show output missing database section:\n%s", out)
	}
}
