package crawler

import (
	"fmt"
	"strings"
)

// windowsDirMarker is the directory tag in DOS/Windows-style listings:
// "01-10-26  12:00PM       <DIR>          pub".
const windowsDirMarker = "<DIR>"

// EntryClass is the classification of one directory entry.
type EntryClass int

const (
	// ClassFile marks a plain file entry.
	ClassFile EntryClass = iota

	// ClassDirectory marks a subdirectory entry.
	ClassDirectory
)

// FormatError reports a name that could not be classified from the
// LIST output. It is recoverable at the directory level: the walker
// treats it exactly like a permission denial and skips the directory.
type FormatError struct {
	// Name is the NLST entry that had no usable LIST line.
	Name string

	// Line is the offending line, empty when no line matched at all.
	Line string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Line == "" {
		return fmt.Sprintf("unsupported listing format: no line matches entry %q", e.Name)
	}
	return fmt.Sprintf("unsupported listing format: %q", e.Line)
}

// classifyLine decides file versus directory from one raw LIST line.
//
// The rules form an ordered table, evaluated top to bottom:
//
//	1. leading 'd'            -> directory  (Unix-style)
//	2. contains "<DIR>"       -> directory  (Windows-style)
//	3. leading '-'            -> file       (Unix-style)
//	4. lacks "<DIR>"          -> file       (fallback)
//
// Rule 4 intentionally swallows everything rules 1-3 missed: a line
// that is neither Unix-style nor carries the Windows marker counts as
// a file, not as unrecognized. Symlinks ('l'), block devices, and
// exotic formats therefore classify as files. The ordering is part of
// the observable behavior and is pinned by tests; do not "fix" it by
// making the rules mutually exclusive.
func classifyLine(line string) EntryClass {
	switch {
	case strings.HasPrefix(line, "d"):
		return ClassDirectory
	case strings.Contains(line, windowsDirMarker):
		return ClassDirectory
	case strings.HasPrefix(line, "-"):
		return ClassFile
	default:
		return ClassFile
	}
}

// SplitEntries classifies every entry of one directory.
//
// names are the bare entry names from NLST (already stripped of "."
// and ".."); lines are the raw LIST output. Each name consumes the
// first not-yet-consumed line whose text ends with that name, so a
// line never backs two names even when names are suffixes of each
// other. Directories come back as path + name + "/", files as
// path + name, preserving discovery order within each class.
//
// A name with no matching line aborts the whole directory with a
// FormatError; partial classifications are discarded.
func SplitEntries(path string, names, lines []string) (dirs, files []string, err error) {
	remaining := make([]string, len(lines))
	copy(remaining, lines)

	for _, name := range names {
		matched := -1
		for i, line := range remaining {
			if strings.HasSuffix(line, name) {
				matched = i
				break
			}
		}
		if matched < 0 {
			return nil, nil, &FormatError{Name: name}
		}

		switch classifyLine(remaining[matched]) {
		case ClassDirectory:
			dirs = append(dirs, path+name+"/")
		case ClassFile:
			files = append(files, path+name)
		}

		remaining = append(remaining[:matched], remaining[matched+1:]...)
	}

	return dirs, files, nil
}
