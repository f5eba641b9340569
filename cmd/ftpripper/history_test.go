package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/ftpripper/internal/database"
	"github.com/nao1215/ftpripper/internal/model"
)

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history" {
			t.Errorf("expected use 'history', got %q", cmd.Use)
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("db-dir") == nil {
			t.Error("expected db-dir flag")
		}
		if cmd.Flags().Lookup("limit") == nil {
			t.Error("expected limit flag")
		}
	})
}

// TestHistoryCmdMissingDatabase tests the error for an absent database.
func TestHistoryCmdMissingDatabase(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--db-dir", filepath.Join(t.TempDir(), "empty")})

	if err := cmd.Execute(); err == nil {
		t.Error("expected an error when no history database exists")
	}
}

// TestHistoryCmdListsRuns tests listing recorded runs.
func TestHistoryCmdListsRuns(t *testing.T) {
	t.Parallel()

	dbDir := t.TempDir()
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	summary := &model.RunSummary{
		StartedAt:  time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC),
		Elapsed:    2 * time.Minute,
		Extensions: model.HistogramOf([]string{"/a.txt", "/b.jpg"}),
		Hosts: []*model.HostResult{{
			Target: model.NewTarget("ftp.example.com", 21),
			Status: model.HostOK,
			Paths:  []string{"/a.txt", "/b.jpg"},
		}},
	}
	if _, err := db.SaveRun(context.Background(), summary); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("failed to close database: %v", err)
	}

	var buf bytes.Buffer
	cmd := NewHistoryCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--db-dir", dbDir})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "STARTED") {
		t.Error("expected a table header")
	}
	if !strings.Contains(output, "2m0s") {
		t.Errorf("expected the run duration in the listing, got %q", output)
	}
}
