package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/comalice/reflexpong"
	"github.com/comalice/reflexpong/internal/production"
)

func TestRunPrintsDOT(t *testing.T) {
	t.Chdir(t.TempDir())
	var out, errOut bytes.Buffer
	if err := run(context.Background(), []string{"-dot"}, strings.NewReader(""), &out, &errOut); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(out.String(), "digraph ReflexPong {") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	var out, errOut bytes.Buffer
	if err := run(context.Background(), []string{"-ticks-per-wake", "-3"}, strings.NewReader(""), &out, &errOut); err == nil {
		t.Fatal("expected error")
	}
}

// Quitting right away still dumps a snapshot of the intro.
func TestRunQuitDumpsSnapshot(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("REFLEXPONG_OTEL_ENDPOINT", "")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var out, errOut bytes.Buffer
	args := []string{"-dump", dir, "-loop-interval", "1ms", "-ticks-per-wake", "10", "-log-level", "error", "-bot", "5ms", "-history", filepath.Join(dir, "history.db")}
	if err := run(ctx, args, strings.NewReader("1\nq\n"), &out, &errOut); err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, snapshotName+".yaml")); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	p, err := production.NewYAMLPersister(dir)
	if err != nil {
		t.Fatalf("NewYAMLPersister: %v", err)
	}
	rec, err := p.Load(context.Background(), snapshotName)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !rec.Snapshot.Initialized || rec.Snapshot.State != reflexpong.Start {
		t.Fatalf("snapshot = %+v", rec.Snapshot)
	}

	history, err := production.OpenHistory(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	defer history.Close()
	if results, err := history.ListResults(context.Background(), 10); err != nil || len(results) != 0 {
		t.Fatalf("results = %v, err = %v; no game finished", results, err)
	}
}

const tinyTunes = `
notes:
  - {name: C5, frequency: 1046.5, period: 30576}
tunes:
  pacman: [C5, "-"]
  au-clair-de-la-lune: [C5]
  p1-reflex: [C5]
  p2-reflex: [C5]
  win: [C5]
`

func TestRunJSONDumpWithCustomTunes(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("REFLEXPONG_OTEL_ENDPOINT", "")
	tunes := filepath.Join(dir, "tunes.yaml")
	if err := os.WriteFile(tunes, []byte(tinyTunes), 0o644); err != nil {
		t.Fatalf("write tunes: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var out, errOut bytes.Buffer
	args := []string{"-dump", dir, "-dump-format", "json", "-tunes", tunes,
		"-loop-interval", "1ms", "-ticks-per-wake", "10", "-log-level", "error"}
	if err := run(ctx, args, strings.NewReader("q\n"), &out, &errOut); err != nil {
		t.Fatalf("run: %v", err)
	}

	p, err := production.NewPersister("json", dir)
	if err != nil {
		t.Fatalf("NewPersister: %v", err)
	}
	if _, err := os.Stat(p.Path(snapshotName)); err != nil {
		t.Fatalf("json snapshot not written: %v", err)
	}
	rec, err := p.Load(context.Background(), snapshotName)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.Snapshot.State != reflexpong.Start {
		t.Fatalf("snapshot = %+v", rec.Snapshot)
	}
}

func TestRunRejectsBadTunes(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	var out, errOut bytes.Buffer

	if err := run(context.Background(), []string{"-tunes", filepath.Join(dir, "missing.yaml")}, strings.NewReader(""), &out, &errOut); err == nil {
		t.Fatal("expected error for a missing tune file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("notes: []\ntunes: {}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := run(context.Background(), []string{"-tunes", bad}, strings.NewReader(""), &out, &errOut); err == nil {
		t.Fatal("expected error for an incomplete tune library")
	}
}
