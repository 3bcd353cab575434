// Package archive packages generated module trees into compressed tarballs
// and optionally produces detached signatures over them.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrArchive is returned when packaging fails for any reason.
var ErrArchive = errors.New("archive failed")

// Artifact records a completed packaging step.
// SignaturePath is empty when signing is disabled or failed.
type Artifact struct {
	SourceDir     string
	ArchivePath   string
	SignaturePath string
}

// Pack archives the full recursive contents of sourceDir into a gzip'd tar
// at archivePath. Entries are named relative to sourceDir's parent, so the
// tarball unpacks into a single top-level directory.
//
// The archive is written to a temp file next to archivePath and renamed
// into place, so archivePath never holds a truncated tarball. If
// archivePath lies inside sourceDir the in-flight temp file and any prior
// archive are skipped during the walk rather than swallowed into the tar.
func Pack(sourceDir, archivePath string, excludePrefixes ...string) (Artifact, error) {
	absSource, err := filepath.Abs(sourceDir)
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: resolve %s: %v", ErrArchive, sourceDir, err)
	}

	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return Artifact{}, fmt.Errorf("%w: create %s: %v", ErrArchive, filepath.Dir(archivePath), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(archivePath), ".bedrock-pack-*")
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: create temp: %v", ErrArchive, err)
	}
	tmpPath := tmp.Name()
	absTmp, err := filepath.Abs(tmpPath)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return Artifact{}, fmt.Errorf("%w: resolve %s: %v", ErrArchive, tmpPath, err)
	}
	absArchive, err := filepath.Abs(archivePath)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return Artifact{}, fmt.Errorf("%w: resolve %s: %v", ErrArchive, archivePath, err)
	}
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := writeTar(tmp, absSource, absTmp, absArchive, excludePrefixes); err != nil {
		return Artifact{}, err
	}
	if err := tmp.Sync(); err != nil {
		return Artifact{}, fmt.Errorf("%w: fsync: %v", ErrArchive, err)
	}
	if err := tmp.Close(); err != nil {
		return Artifact{}, fmt.Errorf("%w: close: %v", ErrArchive, err)
	}
	if err := os.Rename(tmpPath, archivePath); err != nil {
		return Artifact{}, fmt.Errorf("%w: rename: %v", ErrArchive, err)
	}

	success = true
	return Artifact{SourceDir: sourceDir, ArchivePath: archivePath}, nil
}

func writeTar(w io.Writer, absSource, tmpPath, archivePath string, excludePrefixes []string) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	prefix := filepath.Base(absSource)

	err := filepath.WalkDir(absSource, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: walk %s: %v", ErrArchive, path, err)
		}
		// Never archive our own output or its in-flight temp file.
		if path == tmpPath || path == archivePath {
			return nil
		}
		rel, relErr := filepath.Rel(absSource, path)
		if relErr != nil {
			return fmt.Errorf("%w: relativize %s: %v", ErrArchive, path, relErr)
		}
		rel = filepath.ToSlash(rel)
		if rel != "." && excludedPrefix(rel, excludePrefixes) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return fmt.Errorf("%w: stat %s: %v", ErrArchive, path, infoErr)
		}

		name := prefix
		if rel != "." {
			name = prefix + "/" + rel
		}

		switch {
		case d.IsDir():
			hdr, hdrErr := tar.FileInfoHeader(info, "")
			if hdrErr != nil {
				return fmt.Errorf("%w: header %s: %v", ErrArchive, path, hdrErr)
			}
			hdr.Name = name + "/"
			if wErr := tw.WriteHeader(hdr); wErr != nil {
				return fmt.Errorf("%w: write header %s: %v", ErrArchive, path, wErr)
			}
		case info.Mode().IsRegular():
			hdr, hdrErr := tar.FileInfoHeader(info, "")
			if hdrErr != nil {
				return fmt.Errorf("%w: header %s: %v", ErrArchive, path, hdrErr)
			}
			hdr.Name = name
			if wErr := tw.WriteHeader(hdr); wErr != nil {
				return fmt.Errorf("%w: write header %s: %v", ErrArchive, path, wErr)
			}
			f, openErr := os.Open(path)
			if openErr != nil {
				return fmt.Errorf("%w: open %s: %v", ErrArchive, path, openErr)
			}
			_, copyErr := io.Copy(tw, f)
			f.Close()
			if copyErr != nil {
				return fmt.Errorf("%w: copy %s: %v", ErrArchive, path, copyErr)
			}
		default:
			// Symlinks and other irregular files stay out of release
			// archives, matching the manifest's regular-files-only rule.
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("%w: close tar: %v", ErrArchive, err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("%w: close gzip: %v", ErrArchive, err)
	}
	return nil
}

func excludedPrefix(rel string, prefixes []string) bool {
	for _, p := range prefixes {
		if rel == p || strings.HasPrefix(rel, p+"/") {
			return true
		}
	}
	return false
}
