package crawler

import (
	"errors"
	"reflect"
	"testing"
)

func TestClassifyLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want EntryClass
	}{
		{"unix directory", "drwxr-xr-x 2 ftp ftp 4096 Jan 10 12:00 pub", ClassDirectory},
		{"unix file", "-rw-r--r-- 1 ftp ftp 120 Jan 10 12:00 readme.txt", ClassFile},
		{"windows directory", "01-10-26  12:00PM       <DIR>          pub", ClassDirectory},
		{"windows file", "01-10-26  12:00PM               120 readme.txt", ClassFile},
		// The fallback rule: a line that is neither Unix-style nor
		// carries <DIR> classifies as a file, never as unrecognized.
		{"symlink falls through to file", "lrwxrwxrwx 1 ftp ftp 4 Jan 10 12:00 cur -> pub", ClassFile},
		{"exotic format falls through to file", "+i8388621.48594,m825718503 readme.txt", ClassFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := classifyLine(tt.line); got != tt.want {
				t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestSplitEntries(t *testing.T) {
	t.Parallel()

	t.Run("splits files and directories with suffix separators", func(t *testing.T) {
		t.Parallel()
		names := []string{"pub", "readme.txt"}
		lines := []string{
			"drwxr-xr-x 2 ftp ftp 4096 Jan 10 12:00 pub",
			"-rw-r--r-- 1 ftp ftp  120 Jan 10 12:00 readme.txt",
		}

		dirs, files, err := SplitEntries("/", names, lines)
		if err != nil {
			t.Fatalf("SplitEntries failed: %v", err)
		}
		if !reflect.DeepEqual(dirs, []string{"/pub/"}) {
			t.Errorf("unexpected dirs: %v", dirs)
		}
		if !reflect.DeepEqual(files, []string{"/readme.txt"}) {
			t.Errorf("unexpected files: %v", files)
		}
	})

	t.Run("a line is consumed by at most one name", func(t *testing.T) {
		t.Parallel()
		// "log" is a suffix of "error.log": without consumption the
		// error.log line would satisfy both names.
		names := []string{"error.log", "log"}
		lines := []string{
			"-rw-r--r-- 1 ftp ftp 99 Jan 10 12:00 error.log",
			"drwxr-xr-x 2 ftp ftp 4096 Jan 10 12:00 log",
		}

		dirs, files, err := SplitEntries("/", names, lines)
		if err != nil {
			t.Fatalf("SplitEntries failed: %v", err)
		}
		if !reflect.DeepEqual(files, []string{"/error.log"}) {
			t.Errorf("unexpected files: %v", files)
		}
		if !reflect.DeepEqual(dirs, []string{"/log/"}) {
			t.Errorf("unexpected dirs: %v", dirs)
		}
	})

	t.Run("unmatched name yields FormatError", func(t *testing.T) {
		t.Parallel()
		_, _, err := SplitEntries("/", []string{"ghost.txt"}, []string{
			"-rw-r--r-- 1 ftp ftp 1 Jan 10 12:00 other.txt",
		})
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("expected FormatError, got %v", err)
		}
		if fe.Name != "ghost.txt" {
			t.Errorf("unexpected offending name: %q", fe.Name)
		}
	})

	t.Run("deterministic across repeated runs", func(t *testing.T) {
		t.Parallel()
		names := []string{"a", "b.txt", "c"}
		lines := []string{
			"drwxr-xr-x 2 ftp ftp 4096 Jan 10 12:00 a",
			"-rw-r--r-- 1 ftp ftp    1 Jan 10 12:00 b.txt",
			"01-10-26  12:00PM       <DIR>          c",
		}

		firstDirs, firstFiles, err := SplitEntries("/data/", names, lines)
		if err != nil {
			t.Fatal(err)
		}
		for range 5 {
			dirs, files, err := SplitEntries("/data/", names, lines)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(dirs, firstDirs) || !reflect.DeepEqual(files, firstFiles) {
				t.Fatal("classification is not deterministic")
			}
		}
	})

	t.Run("input slices are not mutated", func(t *testing.T) {
		t.Parallel()
		lines := []string{
			"-rw-r--r-- 1 ftp ftp 1 Jan 10 12:00 a.txt",
			"-rw-r--r-- 1 ftp ftp 1 Jan 10 12:00 b.txt",
		}
		want := make([]string, len(lines))
		copy(want, lines)

		if _, _, err := SplitEntries("/", []string{"a.txt", "b.txt"}, lines); err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(lines, want) {
			t.Errorf("lines slice was mutated: %v", lines)
		}
	})
}
