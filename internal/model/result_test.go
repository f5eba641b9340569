package model

import (
	"strings"
	"testing"
)

func TestCrawlResultRefs(t *testing.T) {
	t.Parallel()

	result := &CrawlResult{
		Target: NewTarget("ftp.example.com", 21),
		Paths:  []string{"/pub/a.txt", "/incoming/b c.iso"},
	}

	refs := result.Refs()
	if len(refs) != len(result.Paths) {
		t.Fatalf("expected %d refs, got %d", len(result.Paths), len(refs))
	}

	// Every reference must strip back to the path that produced it.
	prefix := "ftp://ftp.example.com:21"
	for i, ref := range refs {
		if !strings.HasPrefix(ref, prefix) {
			t.Fatalf("reference %q missing prefix %q", ref, prefix)
		}
		if got := result.Target.FileRef(result.Paths[i]); got != ref {
			t.Errorf("ref mismatch: %q vs %q", got, ref)
		}
	}
}
