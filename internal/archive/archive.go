package archive

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mwantia/palanaeum/pkg/apperrors"
)

// Archive resolves and writes the two file trees: images grouped by part number and
// documents grouped by taxonomy.
type Archive struct {
	imageRoot    string
	documentRoot string
}

func New(imageRoot, documentRoot string) *Archive {
	return &Archive{
		imageRoot:    imageRoot,
		documentRoot: documentRoot,
	}
}

// PartDir splits "ABC-12345" into ["ABC", "12", "345"].
func PartDir(partNum string) ([]string, error) {
	prefix, rest, ok := strings.Cut(partNum, "-")
	if !ok || prefix == "" || len(rest) < 2 || strings.Contains(rest, "-") {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidPartNumber, partNum)
	}
	return []string{prefix, rest[:2], rest[2:]}, nil
}

// ImagePath returns the location of an image file for a part
func (a *Archive) ImagePath(partNum, image string) (string, error) {
	dirs, err := PartDir(partNum)
	if err != nil {
		return "", err
	}
	parts := append([]string{a.imageRoot}, dirs...)
	return filepath.Join(append(parts, image)...), nil
}

// CheckSegment rejects names that cannot be used as a single directory level below an
// archive root.
func CheckSegment(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty path segment", apperrors.ErrInvalidTaxonomy)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q is not a directory name", apperrors.ErrInvalidTaxonomy, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q contains a path separator", apperrors.ErrInvalidTaxonomy, name)
	}
	return nil
}

// DocumentPath returns <root>/<category>/<discipline>[/<level3>]/<base name>. Every
// classification level must pass CheckSegment.
func (a *Archive) DocumentPath(fileName, category, discipline string, level3 *string) (string, error) {
	segments := []string{category, discipline}
	if level3 != nil && *level3 != "" {
		segments = append(segments, *level3)
	}
	for _, segment := range segments {
		if err := CheckSegment(segment); err != nil {
			return "", err
		}
	}

	parts := append([]string{a.documentRoot}, segments...)
	return filepath.Join(append(parts, filepath.Base(fileName))...), nil
}

// Quote wraps a path for the platform open command.
func Quote(path string) string {
	return `"` + path + `"`
}

// HashFile returns the hex md5 of the file content followed by its extension.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := md5.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)) + filepath.Ext(path), nil
}

// Staged is a copy of a source file written next to its destination and not yet visible
// under the destination name. Exactly one of Publish or Discard should be called.
type Staged struct {
	// Hash is the hex md5 of the copied bytes
	Hash        string
	Size        int64
	path        string
	destination string
}

func (s *Staged) Destination() string {
	return s.destination
}

// Stage copies source into a uniquely named temporary file in the destination directory,
// creating intermediate directories. Mode and modification time are preserved.
func Stage(source, destination string) (*Staged, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", source)
	}

	dir := filepath.Dir(destination)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	in, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	staging := filepath.Join(dir, fmt.Sprintf(".staging-%s%s", uuid.NewString(), filepath.Ext(destination)))
	out, err := os.OpenFile(staging, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return nil, fmt.Errorf("failed to create staging file: %w", err)
	}

	hasher := md5.New()
	size, err := io.Copy(io.MultiWriter(out, hasher), in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(staging)
		return nil, fmt.Errorf("failed to copy %s: %w", source, err)
	}

	if err := os.Chtimes(staging, info.ModTime(), info.ModTime()); err != nil {
		os.Remove(staging)
		return nil, fmt.Errorf("failed to preserve times on %s: %w", staging, err)
	}

	return &Staged{
		Hash:        hex.EncodeToString(hasher.Sum(nil)),
		Size:        size,
		path:        staging,
		destination: destination,
	}, nil
}

// Publish atomically renames the staged copy onto its destination, replacing any
// existing file.
func (s *Staged) Publish() error {
	if err := os.Rename(s.path, s.destination); err != nil {
		return fmt.Errorf("failed to publish %s: %w", s.destination, err)
	}
	return nil
}

// Discard removes the staged copy
func (s *Staged) Discard() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
