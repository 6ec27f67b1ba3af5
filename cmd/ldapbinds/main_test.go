package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URL", "DB_URL", "LDAPBINDS_INPUT_PATH", "LDAPBINDS_OUTPUT_DIR",
		"LDAPBINDS_LOG_DIR", "LDAPBINDS_COMPRESS", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func readLog(t *testing.T, dir string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*_insecure_ldap_binds_*.log"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one log file in %s, got %v (%v)", dir, matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestRun_EndToEnd(t *testing.T) {
	setupEnv(t)

	input := filepath.Join(t.TempDir(), "dc01")
	if err := os.MkdirAll(input, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "ipAddress,hostName,user\n10.0.0.1,dc01,alice\n10.0.0.1,dc01,alice\n"
	if err := os.WriteFile(filepath.Join(input, "binds.csv"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir, logDir := t.TempDir(), t.TempDir()

	code := run([]string{"-p", input, "--output", outDir, "-l", logDir})
	if code != 0 {
		t.Fatalf("run() = %d, want 0\n%s", code, readLog(t, logDir))
	}

	data, err := os.ReadFile(filepath.Join(outDir, "dc01_insecure_ldap_binds_unique.csv"))
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if string(data) != ",ipAddress,hostName,user\n0,10.0.0.1,dc01,alice\n" {
		t.Errorf("unexpected output %q", data)
	}

	logs := readLog(t, logDir)
	if !strings.Contains(logs, "Script started.") || !strings.Contains(logs, "Reason: Clean exit.") {
		t.Errorf("unexpected log:\n%s", logs)
	}
}

func TestRun_FatalExitCode(t *testing.T) {
	setupEnv(t)

	logDir := t.TempDir()
	code := run([]string{"-p", filepath.Join(t.TempDir(), "missing"), "-o", t.TempDir(), "-l", logDir})
	if code != 1 {
		t.Fatalf("run() = %d, want 1", code)
	}

	logs := readLog(t, logDir)
	if !strings.Contains(logs, "Reason: Fatal error.") {
		t.Errorf("missing fatal summary:\n%s", logs)
	}
}

func TestRun_InvalidFlag(t *testing.T) {
	setupEnv(t)

	if code := run([]string{"--compress", "gzip", "-l", t.TempDir()}); code != 2 {
		t.Errorf("run() = %d, want 2 for invalid compression", code)
	}
}
