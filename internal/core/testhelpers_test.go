package core

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFile creates path under dir (with parents) holding content.
func writeFile(t *testing.T, dir, path, content string) string {
	t.Helper()
	full := filepath.Join(dir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return full
}

const bindsHeader = "ipAddress,hostName,user,time\n"
