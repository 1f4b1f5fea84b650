package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDocument = `{"categories": {
  "Space": {"questions": [
    {"question": "Closest star?", "points": 10, "options": ["Sun", "Sirius"], "correct": "Sun"}
  ]},
  "Open": {"questions": [
    {"question": "Name a moon of Jupiter", "points": 20, "answer": "Io"}
  ]}
}}`

func writeDocument(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "space.json")
	if err := os.WriteFile(path, []byte(sampleDocument), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCatalogValidate(t *testing.T) {
	out, err := execute(t, "", "catalog", "validate", writeDocument(t))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "ok: 2 categories, 2 questions") || !strings.Contains(out, "Space: 1 questions, 10 pts") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestCatalogValidateRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("categories:\n  Empty:\n    questions: []\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := execute(t, "", "catalog", "validate", path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestCatalogImportAndListSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalogs.db")
	t.Setenv("QUIZ_SQLITE_PATH", dbPath)
	t.Setenv("QUIZ_POSTGRES_URL", "")
	t.Setenv("QUIZ_REDIS_ADDR", "")

	out, err := execute(t, "", "catalog", "import", writeDocument(t), "--id", "space", "--to", "sqlite")
	if err != nil {
		t.Fatalf("import: %v\n%s", err, out)
	}
	if !strings.Contains(out, `imported "space"`) {
		t.Fatalf("unexpected import output:\n%s", out)
	}

	out, err = execute(t, "", "catalog", "list", "--from", "sqlite")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.TrimSpace(out) != "space" {
		t.Fatalf("unexpected list output: %q", out)
	}
}

func TestPlayFromFile(t *testing.T) {
	out, err := execute(t, "Owls\nFoxes\n1\na\nn\nq\n", "play", "--catalog", writeDocument(t))
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if !strings.Contains(out, "! Correct! 10 points to Owls") || !strings.Contains(out, "Owls Wins!") {
		t.Fatalf("unexpected game output:\n%s", out)
	}
}

func TestFlagNormalization(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.PersistentFlags().Parse([]string{"--log_level", "debug"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	got, err := cmd.PersistentFlags().GetString("log-level")
	if err != nil || got != "debug" {
		t.Fatalf("log-level = %q (%v)", got, err)
	}
}

func TestLoadFallsBackWithoutDefaultFile(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	opts := &rootOptions{configPath: defaultConfigPath, port: "7070", logLevel: "WARN"}
	cfg, err := opts.load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "7070" || cfg.Log.Level != "WARN" {
		t.Fatalf("flag overrides not applied: %+v", cfg)
	}

	opts.configPath = "elsewhere.yaml"
	if _, err := opts.load(); err == nil {
		t.Fatalf("expected error for explicit missing config")
	}
}
