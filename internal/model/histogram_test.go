package model

import (
	"reflect"
	"testing"
	"time"
)

func TestHistogram(t *testing.T) {
	t.Parallel()

	t.Run("Add counts by extension including the dot", func(t *testing.T) {
		t.Parallel()
		h := NewHistogram()
		h.Add("/pub/a.txt")
		h.Add("/pub/b.TXT")
		h.Add("/pub/c.txt")
		h.Add("/pub/README")

		if h[".txt"] != 2 {
			t.Errorf("expected 2 .txt files, got %d", h[".txt"])
		}
		if h[".TXT"] != 1 {
			t.Errorf("extension case must be preserved, got %d .TXT", h[".TXT"])
		}
		if h.Unknown() != 1 {
			t.Errorf("expected 1 extensionless file, got %d", h.Unknown())
		}
	})

	t.Run("Fold merges counts", func(t *testing.T) {
		t.Parallel()
		total := HistogramOf([]string{"/a.txt", "/b.jpg"})
		total.Fold(HistogramOf([]string{"/c.txt", "/d"}))

		if total[".txt"] != 2 || total[".jpg"] != 1 || total.Unknown() != 1 {
			t.Errorf("unexpected fold result: %v", total)
		}
		if total.Total() != 4 {
			t.Errorf("expected total 4, got %d", total.Total())
		}
	})

	t.Run("Extensions are sorted and exclude the unknown bucket", func(t *testing.T) {
		t.Parallel()
		h := HistogramOf([]string{"/z.zip", "/a.avi", "/noext", "/m.mp3"})
		want := []string{".avi", ".mp3", ".zip"}
		if got := h.Extensions(); !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})
}

func TestRunSummary(t *testing.T) {
	t.Parallel()

	summary := &RunSummary{
		StartedAt: time.Now(),
		Hosts: []*HostResult{
			{Target: NewTarget("a", 21), Status: HostOK, Paths: []string{"/x.txt"}},
			{Target: NewTarget("b", 21), Status: HostFailed, FailReason: "connection refused"},
			{Target: NewTarget("c", 21), Status: HostStopped},
		},
		Extensions: HistogramOf([]string{"/x.txt"}),
	}

	if summary.TotalFiles() != 1 {
		t.Errorf("expected 1 total file, got %d", summary.TotalFiles())
	}
	if summary.CountByStatus(HostOK) != 1 || summary.CountByStatus(HostFailed) != 1 || summary.CountByStatus(HostStopped) != 1 {
		t.Error("unexpected per-status counts")
	}
}

func TestHostStatusString(t *testing.T) {
	t.Parallel()

	if HostOK.String() != "ok" || HostStopped.String() != "stopped" || HostFailed.String() != "failed" {
		t.Error("unexpected status names")
	}
	if HostStatus(42).String() != "unknown" {
		t.Error("out-of-range status must render as unknown")
	}
}
