package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDailyWriterCreatesDatedFile(t *testing.T) {
	dir := t.TempDir()

	w, err := NewDailyWriter(dir, 7)
	if err != nil {
		t.Fatalf("NewDailyWriter failed: %v", err)
	}
	defer w.Close()

	if _, err := w.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	name := fmt.Sprintf("%s-%s.log", defaultPrefix, time.Now().Format("20060102"))
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if string(data) != "hello\n" {
		t.Fatalf("unexpected file contents: %q", data)
	}
}

func TestDailyWriterPrunesOldFiles(t *testing.T) {
	dir := t.TempDir()

	oldName := fmt.Sprintf("%s-%s.log", defaultPrefix, time.Now().AddDate(0, 0, -30).Format("20060102"))
	oldPath := filepath.Join(dir, oldName)
	if err := os.WriteFile(oldPath, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seeding old log: %v", err)
	}
	keepPath := filepath.Join(dir, "unrelated.log")
	if err := os.WriteFile(keepPath, []byte("keep"), 0o644); err != nil {
		t.Fatalf("seeding unrelated file: %v", err)
	}

	w, err := NewDailyWriter(dir, 7)
	if err != nil {
		t.Fatalf("NewDailyWriter failed: %v", err)
	}
	defer w.Close()

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Fatalf("expected stale log to be pruned, stat err: %v", err)
	}
	if _, err := os.Stat(keepPath); err != nil {
		t.Fatalf("unrelated file must survive pruning: %v", err)
	}
}

func TestResolveLevel(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"8", "ERROR"},
		{"garbage", "INFO"},
		{"", "INFO"},
	}
	for _, tc := range cases {
		t.Setenv(envLogLevel, tc.value)
		if got := resolveLevel(0).String(); got != tc.want {
			t.Fatalf("resolveLevel with %q = %s, want %s", tc.value, got, tc.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()

	logger, writer, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer writer.Close()

	logger.Info("startup complete", "port", 8000)

	name := fmt.Sprintf("%s-%s.log", defaultPrefix, time.Now().Format("20060102"))
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected log output in daily file")
	}
}
