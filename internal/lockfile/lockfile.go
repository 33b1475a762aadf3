// Package lockfile records what each page was last built from, so unchanged
// pages can be skipped on the next build.
package lockfile

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/mitkury/markpage/internal/atomicfile"
)

const (
	FileName       = ".markpage.lock"
	currentVersion = 1
)

// LockFile maps page source paths to the state they were built from.
// Fingerprint covers the settings that change every page's output; when it
// differs nothing in Pages is fresh.
type LockFile struct {
	Version     int                   `json:"version"`
	Fingerprint string                `json:"fingerprint,omitempty"`
	Pages       map[string]*LockEntry `json:"pages"`
}

type LockEntry struct {
	SHA256   string    `json:"sha256"`
	HTMLFile string    `json:"html_file,omitempty"`
	BuiltAt  time.Time `json:"built_at"`
}

// Hash returns the hex sha256 of content.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Fingerprint hashes build settings into a single value.
func Fingerprint(settings ...string) string {
	return Hash([]byte(strings.Join(settings, "\x00")))
}

func Load(outputDir string) (*LockFile, error) {
	lockPath := Path(outputDir)
	data, err := os.ReadFile(lockPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}

		return nil, oops.
			Code("LOCK_ERROR").
			With("path", lockPath).
			Wrapf(err, "reading lock file")
	}

	lock := &LockFile{}
	if unmarshalErr := json.Unmarshal(data, lock); unmarshalErr != nil {
		return nil, oops.
			Code("LOCK_ERROR").
			With("path", lockPath).
			Hint("Delete the lock file or run 'markpage build --force' to regenerate it").
			Wrapf(unmarshalErr, "parsing lock file")
	}

	if lock.Version == 0 {
		lock.Version = currentVersion
	}

	if lock.Pages == nil {
		lock.Pages = map[string]*LockEntry{}
	}

	return lock, nil
}

func New() *LockFile {
	return &LockFile{
		Version: currentVersion,
		Pages:   map[string]*LockEntry{},
	}
}

func Path(outputDir string) string {
	return filepath.Join(outputDir, FileName)
}

func (l *LockFile) Save(outputDir string) error {
	if l == nil {
		return oops.
			Code("LOCK_ERROR").
			Hint("Initialize lock file state before saving").
			Errorf("cannot save nil lock file")
	}

	if l.Version == 0 {
		l.Version = currentVersion
	}

	if l.Pages == nil {
		l.Pages = map[string]*LockEntry{}
	}

	if err := atomicfile.WriteJSON(Path(outputDir), l); err != nil {
		return oops.
			Code("LOCK_ERROR").
			With("path", Path(outputDir)).
			Wrapf(err, "writing lock file")
	}
	return nil
}

// Fresh reports whether the page at path was built from content hashing to
// sum under the current fingerprint.
func (l *LockFile) Fresh(path, sum, fingerprint string) bool {
	if l == nil || l.Fingerprint != fingerprint {
		return false
	}
	entry := l.Pages[path]
	return entry != nil && entry.SHA256 == sum
}

func (l *LockFile) GetEntry(path string) *LockEntry {
	if l == nil {
		return nil
	}

	return l.Pages[path]
}

func (l *LockFile) SetEntry(path string, entry *LockEntry) {
	if l == nil {
		return
	}

	if l.Pages == nil {
		l.Pages = map[string]*LockEntry{}
	}

	l.Pages[path] = entry
}

func (l *LockFile) RemoveEntry(path string) {
	if l == nil || l.Pages == nil {
		return
	}

	delete(l.Pages, path)
}

// Prune drops entries whose path is not in keep and returns them.
func (l *LockFile) Prune(keep map[string]bool) map[string]*LockEntry {
	if l == nil {
		return nil
	}

	removed := map[string]*LockEntry{}
	for path, entry := range l.Pages {
		if !keep[path] {
			removed[path] = entry
			delete(l.Pages, path)
		}
	}
	return removed
}
