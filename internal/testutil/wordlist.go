package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteWordlist writes lines, each newline-terminated, to dir/name and
// returns the path.
func WriteWordlist(t testing.TB, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("write wordlist %s: %v", path, err)
	}
	return path
}

// ReadLines returns the lines of a file without their newlines.
// An empty file yields no lines.
func ReadLines(t testing.TB, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
