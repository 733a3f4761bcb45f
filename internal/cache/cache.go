package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LockFileName is written at the root of every generated skill directory.
const LockFileName = ".skillgen-lock.json"

// PendingDirName holds renders that were not written because the file on
// disk had been edited by hand.
const PendingDirName = ".skillgen-pending"

// LockFile represents the .skillgen-lock.json structure.
type LockFile struct {
	Files map[string]LockEntry `json:"files"`
}

// LockEntry records hashes and metadata for a single generated file.
type LockEntry struct {
	InputHash  string `json:"inputHash"`
	OutputHash string `json:"outputHash"`
	Timestamp  string `json:"timestamp"`
	Template   string `json:"template"`
}

// HashInput computes a SHA-256 hash of everything a file is rendered from.
func HashInput(templateID, contextJSON, body string) string {
	h := sha256.New()
	for _, part := range []string{templateID, contextJSON, body} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// HashOutput computes a SHA-256 hash of rendered output.
func HashOutput(content string) string {
	h := sha256.New()
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}

// LoadLockFile reads the lockfile from a skill directory. A missing file
// yields an empty lockfile.
func LoadLockFile(dir string) (*LockFile, error) {
	path := filepath.Join(dir, LockFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LockFile{Files: make(map[string]LockEntry)}, nil
		}
		return nil, fmt.Errorf("reading lockfile: %w", err)
	}
	var lf LockFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parsing lockfile: %w", err)
	}
	if lf.Files == nil {
		lf.Files = make(map[string]LockEntry)
	}
	return &lf, nil
}

// SaveLockFile writes the lockfile to a skill directory.
func SaveLockFile(dir string, lf *LockFile) error {
	data, err := json.MarshalIndent(lf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling lockfile: %w", err)
	}
	path := filepath.Join(dir, LockFileName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing lockfile: %w", err)
	}
	return nil
}

// UpdateEntry records the hashes of a freshly written file.
func (lf *LockFile) UpdateEntry(path, inputHash, outputHash, templateID string) {
	lf.Files[path] = LockEntry{
		InputHash:  inputHash,
		OutputHash: outputHash,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Template:   templateID,
	}
}

// IsUpToDate checks if a file's input hash matches the lockfile.
func (lf *LockFile) IsUpToDate(path, inputHash string) bool {
	entry, ok := lf.Files[path]
	if !ok {
		return false
	}
	return entry.InputHash == inputHash
}

// IsModified reports whether the content on disk differs from what was last
// written. Files the lockfile does not know about are not considered
// modified.
func (lf *LockFile) IsModified(path, onDisk string) bool {
	entry, ok := lf.Files[path]
	if !ok {
		return false
	}
	return entry.OutputHash != HashOutput(onDisk)
}

// PendingDir returns the directory holding unwritten renders.
func PendingDir(skillDir string) string {
	return filepath.Join(skillDir, PendingDirName)
}

// ReadPending reads a render saved by WritePending.
func ReadPending(skillDir, path string) (string, error) {
	data, err := os.ReadFile(filepath.Join(PendingDir(skillDir), filepath.FromSlash(path)))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WritePending stores a render next to a hand-edited file so the two can be
// compared.
func WritePending(skillDir, path, content string) error {
	target := filepath.Join(PendingDir(skillDir), filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, []byte(content), 0o644)
}
