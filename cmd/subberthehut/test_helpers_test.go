package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subberthehut/internal/testsupport"
)

type cliTestEnv struct {
	catalog    *testsupport.Catalog
	configPath string
	baseDir    string
	mediaDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for _, key := range []string{"OPENSUBTITLES_USER_AGENT", "OPENSUBTITLES_USERNAME", "OPENSUBTITLES_PASSWORD", "SUBBERTHEHUT_LANG"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	catalog := testsupport.NewCatalog(t)
	cfg := testsupport.NewConfig(t, testsupport.WithCatalog(catalog))
	configPath := filepath.Join(base, "subberthehut.toml")
	writeTestConfig(t, configPath, cfg.Catalog.Endpoint, cfg.Paths.LogDir)

	mediaDir := filepath.Join(base, "media")
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		t.Fatalf("mkdir media: %v", err)
	}
	return &cliTestEnv{
		catalog:    catalog,
		configPath: configPath,
		baseDir:    base,
		mediaDir:   mediaDir,
	}
}

func (env *cliTestEnv) video(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(env.mediaDir, name)
	testsupport.WriteFile(t, path, size)
	return path
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path, endpoint, logDir string) {
	t.Helper()
	content := fmt.Sprintf(
		"[catalog]\nendpoint = %q\nuser_agent = %q\n\n[paths]\nlog_dir = %q\n\n[logging]\nlevel = %q\n",
		endpoint,
		"subberthehut-test",
		logDir,
		"error",
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireFile(t *testing.T, path, want string) {
	t.Helper()
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if string(got) != want {
		t.Fatalf("unexpected contents of %s: %q", path, got)
	}
}
