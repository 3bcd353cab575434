// Package fsutil implements the crash-consistent, idempotent file writer
// underlying all scaffold generation.
//
// Writes go to a temporary sibling in the destination directory (same
// filesystem, so the final rename is atomic on POSIX), permissions are set
// on the temp file, and the rename is the last step. A failure at any point
// before the rename leaves the destination untouched.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Sentinel errors for the writer's failure taxonomy.
// Callers match with errors.Is to map causes to exit codes.
var (
	// ErrDirectoryCreate is returned when an ancestor directory cannot be
	// created, including when an existing path component is a regular file.
	ErrDirectoryCreate = errors.New("directory create failed")
	// ErrWrite is returned when the temp write, chmod, or rename fails.
	ErrWrite = errors.New("atomic write failed")
)

const tmpPattern = ".bedrock-tmp-*"

// Writer performs atomic, idempotent writes and logs every outcome.
type Writer struct {
	logger *slog.Logger

	// Injection seams for failure testing. Production uses the os defaults.
	createTemp func(dir, pattern string) (*os.File, error)
	rename     func(oldpath, newpath string) error
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets the structured logger used for outcome lines.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) {
		w.logger = logger
	}
}

// NewWriter creates a Writer. Without options it logs nowhere.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		createTemp: os.CreateTemp,
		rename:     os.Rename,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return w
}

// Write places content at destPath with the given mode.
//
// Behavior:
//  1. Ancestor directories are created as needed.
//  2. If destPath exists and overwrite is false, the file is left untouched
//     and the outcome is SkippedExisting.
//  3. Otherwise content goes to a temp sibling, the mode is applied to the
//     temp file, and an atomic rename publishes it. No reader ever observes
//     a partially written file or a file with the wrong permission bits.
func (w *Writer) Write(destPath string, content []byte, mode os.FileMode, overwrite bool) WriteOutcome {
	outcome := w.write(destPath, content, mode, overwrite)
	switch outcome.Kind {
	case OutcomeWritten:
		w.logger.Info("artifact written", "path", destPath)
	case OutcomeSkippedExisting:
		w.logger.Info("artifact skipped (exists)", "path", destPath)
	case OutcomeFailed:
		w.logger.Error("artifact write failed", "path", destPath, "err", outcome.Err)
	}
	return outcome
}

func (w *Writer) write(destPath string, content []byte, mode os.FileMode, overwrite bool) WriteOutcome {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return WriteOutcome{Path: destPath, Kind: OutcomeFailed,
			Err: fmt.Errorf("%w: %s: %v", ErrDirectoryCreate, dir, err)}
	}

	// Idempotency: re-running the generator never clobbers existing output
	// unless the caller explicitly asks for it.
	if !overwrite {
		if _, err := os.Lstat(destPath); err == nil {
			return WriteOutcome{Path: destPath, Kind: OutcomeSkippedExisting}
		}
	}

	tmp, err := w.createTemp(dir, tmpPattern)
	if err != nil {
		return WriteOutcome{Path: destPath, Kind: OutcomeFailed,
			Err: fmt.Errorf("%w: create temp: %v", ErrWrite, err)}
	}
	tmpPath := tmp.Name()

	// Remove the temp file on any failure path. After a successful rename
	// tmpPath no longer exists and the Remove is a harmless no-op error.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return WriteOutcome{Path: destPath, Kind: OutcomeFailed,
			Err: fmt.Errorf("%w: write temp: %v", ErrWrite, err)}
	}
	if err := tmp.Sync(); err != nil {
		return WriteOutcome{Path: destPath, Kind: OutcomeFailed,
			Err: fmt.Errorf("%w: fsync temp: %v", ErrWrite, err)}
	}
	if err := tmp.Close(); err != nil {
		return WriteOutcome{Path: destPath, Kind: OutcomeFailed,
			Err: fmt.Errorf("%w: close temp: %v", ErrWrite, err)}
	}

	// Permissions go on the temp file so the content is never visible
	// without its intended bits (matters for executables in bin/).
	if err := os.Chmod(tmpPath, mode); err != nil {
		return WriteOutcome{Path: destPath, Kind: OutcomeFailed,
			Err: fmt.Errorf("%w: chmod temp: %v", ErrWrite, err)}
	}

	// Atomic publish. Rename is the final step; there is no failure mode
	// that leaves destPath half-written.
	if err := w.rename(tmpPath, destPath); err != nil {
		return WriteOutcome{Path: destPath, Kind: OutcomeFailed,
			Err: fmt.Errorf("%w: rename: %v", ErrWrite, err)}
	}

	success = true
	return WriteOutcome{Path: destPath, Kind: OutcomeWritten}
}

// EnsureDir creates dir (and ancestors) if absent, mapping failures to
// ErrDirectoryCreate so callers classify them uniformly.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDirectoryCreate, dir, err)
	}
	return nil
}
