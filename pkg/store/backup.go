package store

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// backupExt is appended after the ULID in backup filenames.
const backupExt = ".bak"

// backupEntropy keeps ULIDs strictly increasing even within one
// millisecond, so lexicographic order always matches creation order.
var backupEntropy = &ulid.LockedMonotonicReader{
	MonotonicReader: ulid.Monotonic(rand.Reader, 0),
}

// Backup copies the backing file to a sibling file named
// <file>.<ulid>.bak and returns the copy's path. ULIDs sort by creation
// time, so the newest backup is always last lexicographically.
// ErrNoBackingFile is returned when nothing has been persisted yet.
func (e *Engine) Backup(_ context.Context) (string, error) {
	e.persistMu.Lock()
	defer e.persistMu.Unlock()

	src, err := os.Open(e.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNoBackingFile
		}
		return "", fmt.Errorf("store: backup: %w", err)
	}
	defer src.Close()

	id, err := ulid.New(ulid.Timestamp(time.Now()), backupEntropy)
	if err != nil {
		return "", fmt.Errorf("store: backup: %w", err)
	}
	dst := e.path + "." + id.String() + backupExt

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", fmt.Errorf("store: backup: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return "", fmt.Errorf("store: backup: copy: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("store: backup: close: %w", err)
	}

	e.observe("backup")
	e.logger.Debug("backup written", "path", dst)
	return dst, nil
}

// PruneBackups deletes all but the newest keep backups of the backing
// file and returns the number removed. keep < 0 is treated as 0.
func (e *Engine) PruneBackups(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	matches, err := filepath.Glob(e.path + ".*" + backupExt)
	if err != nil {
		return 0, fmt.Errorf("store: prune backups: %w", err)
	}

	var backups []string
	for _, m := range matches {
		if strings.HasSuffix(m, backupExt) {
			backups = append(backups, m)
		}
	}
	if len(backups) <= keep {
		return 0, nil
	}

	// ULID filenames sort oldest first.
	sort.Strings(backups)

	removed := 0
	for _, path := range backups[:len(backups)-keep] {
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("store: prune backups: %w", err)
		}
		removed++
	}

	e.logger.Debug("backups pruned", "removed", removed, "kept", keep)
	return removed, nil
}
