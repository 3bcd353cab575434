// Package manifest produces deterministic SHA-256 checksum listings of
// generated trees. The same file set always yields byte-identical manifest
// output regardless of filesystem enumeration order.
package manifest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrManifestRead is returned when any file under the root cannot be read.
// A manifest covering only some files is worse than no manifest, so a
// single read failure aborts the whole operation.
var ErrManifestRead = errors.New("manifest read failed")

// Entry is one manifest record.
type Entry struct {
	RelPath string
	Digest  string // hex SHA-256 of the full file content
	Size    uint64
}

// Generate walks root recursively and returns one entry per regular file,
// sorted by relative path in bytewise lexicographic order. Directories and
// symlinks are excluded. Relative paths under any of excludePrefixes
// (slash-separated, relative to root) are skipped; the packaging output
// directory is excluded this way from the whole-tree manifest.
func Generate(root string, excludePrefixes ...string) ([]Entry, error) {
	var entries []Entry

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: walk %s: %v", ErrManifestRead, path, err)
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return fmt.Errorf("%w: relativize %s: %v", ErrManifestRead, path, relErr)
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if excluded(rel, excludePrefixes) {
				return filepath.SkipDir
			}
			return nil
		}
		// Regular files only; symlinks never enter the manifest.
		if !d.Type().IsRegular() {
			return nil
		}
		if excluded(rel, excludePrefixes) {
			return nil
		}

		digest, size, hashErr := hashFile(path)
		if hashErr != nil {
			return fmt.Errorf("%w: %s: %v", ErrManifestRead, path, hashErr)
		}
		entries = append(entries, Entry{RelPath: rel, Digest: digest, Size: size})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reproducibility contract: order is defined by the path bytes, never
	// by directory enumeration order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RelPath < entries[j].RelPath
	})
	return entries, nil
}

// Encode renders entries in the sha256sum text format:
// "<digest>  <relpath>\n" per entry.
func Encode(entries []Entry) []byte {
	var buf bytes.Buffer
	for _, e := range entries {
		fmt.Fprintf(&buf, "%s  %s\n", e.Digest, e.RelPath)
	}
	return buf.Bytes()
}

// Mismatch describes one verification failure.
type Mismatch struct {
	RelPath string
	Reason  string
}

// Verify recomputes the manifest of root and compares it against the
// recorded manifest file, returning every mismatch (changed digest, missing
// file, or file absent from the manifest).
func Verify(root, manifestPath string, excludePrefixes ...string) ([]Mismatch, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrManifestRead, manifestPath, err)
	}
	recorded, err := parse(data)
	if err != nil {
		return nil, err
	}

	current, err := Generate(root, excludePrefixes...)
	if err != nil {
		return nil, err
	}
	currentByPath := make(map[string]Entry, len(current))
	for _, e := range current {
		currentByPath[e.RelPath] = e
	}

	var mismatches []Mismatch
	for _, rec := range recorded {
		cur, ok := currentByPath[rec.RelPath]
		switch {
		case !ok:
			mismatches = append(mismatches, Mismatch{RelPath: rec.RelPath, Reason: "missing"})
		case cur.Digest != rec.Digest:
			mismatches = append(mismatches, Mismatch{RelPath: rec.RelPath, Reason: "digest mismatch"})
		}
		delete(currentByPath, rec.RelPath)
	}
	for rel := range currentByPath {
		mismatches = append(mismatches, Mismatch{RelPath: rel, Reason: "not in manifest"})
	}
	sort.Slice(mismatches, func(i, j int) bool {
		return mismatches[i].RelPath < mismatches[j].RelPath
	})
	return mismatches, nil
}

func parse(data []byte) ([]Entry, error) {
	var entries []Entry
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		digest, rel, ok := strings.Cut(line, "  ")
		if !ok || len(digest) != sha256.Size*2 {
			return nil, fmt.Errorf("%w: malformed manifest line %q", ErrManifestRead, line)
		}
		entries = append(entries, Entry{RelPath: rel, Digest: digest})
	}
	return entries, nil
}

func hashFile(path string) (string, uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), uint64(n), nil
}

func excluded(rel string, prefixes []string) bool {
	for _, p := range prefixes {
		if rel == p || strings.HasPrefix(rel, p+"/") {
			return true
		}
	}
	return false
}
