package segment

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"qsrescue/internal/model"
)

// ErrInvalidFilename marks a segment filename whose prefix is not an integer.
// Such files are skipped from the catalog, never aborting the run.
var ErrInvalidFilename = errors.New("segment filename has no numeric prefix")

// Catalog enumerates and orders segment files for a recovery run
type Catalog struct {
	extension string
	logger    *slog.Logger
}

// NewCatalog creates a catalog for the given filename extension
func NewCatalog(extension string, logger *slog.Logger) *Catalog {
	if extension == "" {
		extension = Extension
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{extension: extension, logger: logger}
}

// Scan lists segment files under dir, sorted by ascending sequence number
// regardless of directory listing order. Files without the extension are
// ignored; files with a non-numeric prefix are skipped with a warning.
func (c *Catalog) Scan(dir string) ([]model.SegmentFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var files []model.SegmentFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), c.extension) {
			continue
		}

		seq, err := sequenceNumber(entry.Name())
		if err != nil {
			c.logger.Warn("skipping segment file", "file", entry.Name(), "error", err)
			continue
		}

		files = append(files, model.SegmentFile{
			Path: filepath.Join(dir, entry.Name()),
			Seq:  seq,
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Seq < files[j].Seq })

	return files, nil
}

// sequenceNumber parses the integer prefix before the first '.' of a
// segment filename.
func sequenceNumber(name string) (int, error) {
	prefix, _, _ := strings.Cut(name, ".")
	seq, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return seq, nil
}
