package segment

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cmsd2/kvs/pkg/errors"
	"github.com/cmsd2/kvs/pkg/filesys"
)

// Directory owns a directory path and a fixed file extension, and manages
// the segment files within it. Segment files are named "<id>.<ext>" with
// id the decimal encoding of a non-negative integer; ids are dense,
// monotonically increasing, and never reused by a Directory even after a
// segment is removed. The highest id handed out is held in memory only;
// a new Directory derives its next id from the files present.
type Directory struct {
	dir string
	ext string

	// lastID is the highest id this Directory has handed out, so that
	// removing the newest segment file does not free its id for reuse.
	lastID uint64
}

// NewDirectory returns a Directory rooted at dir, managing files with the
// given extension (without a leading dot).
func NewDirectory(dir, ext string) *Directory {
	return &Directory{dir: dir, ext: ext}
}

// Dir returns the directory path this Directory manages.
func (d *Directory) Dir() string { return d.dir }

// pathFor returns the full path for segment id.
func (d *Directory) pathFor(id uint64) string {
	name := strconv.FormatUint(id, 10) + "." + d.ext
	return filepath.Join(d.dir, name)
}

// idForPath extracts the segment id from a path produced by pathFor,
// erroring if the stem isn't a non-negative decimal integer.
func (d *Directory) idForPath(path string) (uint64, error) {
	stem := strings.TrimSuffix(filepath.Base(path), "."+d.ext)
	id, err := strconv.ParseUint(stem, 10, 64)
	if err != nil {
		return 0, errors.NewParseIntError(err, stem)
	}
	return id, nil
}

// List enumerates segment files matching "*.<ext>" in the directory,
// parses each stem as a decimal integer, and returns the ids in ascending
// order. A non-numeric stem is an error.
func (d *Directory) List() ([]uint64, error) {
	pattern := filepath.Join(d.dir, "*."+d.ext)
	matches, err := filesys.ReadDir(pattern)
	if err != nil {
		return nil, errors.NewGlobError(err, pattern)
	}

	ids := make([]uint64, 0, len(matches))
	for _, path := range matches {
		id, err := d.idForPath(path)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// nextID computes 1 + max(existing ids), or 1 when the directory holds no
// segments yet, but never less than 1 + the highest id this Directory has
// already handed out.
func (d *Directory) nextID() (uint64, error) {
	ids, err := d.List()
	if err != nil {
		return 0, err
	}
	next := uint64(1)
	if len(ids) > 0 {
		next = ids[len(ids)-1] + 1
	}
	if next <= d.lastID {
		next = d.lastID + 1
	}
	d.lastID = next
	return next, nil
}

// Create allocates the next segment id, opens its file with exclusive
// create semantics (failing if the file already exists — ids are never
// reused so this should not happen in practice), and returns the id and
// an open Segment for it.
func (d *Directory) Create() (uint64, *Segment, error) {
	id, err := d.nextID()
	if err != nil {
		return 0, nil, err
	}

	path := d.pathFor(id)
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, nil, errors.NewIOError(err, path).WithSegmentID(id)
	}

	return id, open(id, path, file), nil
}

// Open reopens an existing segment file for reading and writing.
func (d *Directory) Open(id uint64) (*Segment, error) {
	path := d.pathFor(id)
	file, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, errors.NewIOError(err, path).WithSegmentID(id)
	}
	return open(id, path, file), nil
}

// Remove unlinks the segment file with the given id.
func (d *Directory) Remove(id uint64) error {
	path := d.pathFor(id)
	if err := os.Remove(path); err != nil {
		return errors.NewIOError(err, path).WithSegmentID(id)
	}
	return nil
}

// Size returns the current length, in bytes, of the segment file with the
// given id, without requiring it to already be open.
func (d *Directory) Size(id uint64) (int64, error) {
	path := d.pathFor(id)
	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.NewIOError(err, path).WithSegmentID(id)
	}
	return info.Size(), nil
}

// EnsureDir creates the managed directory (and any parents) if it
// doesn't already exist.
func (d *Directory) EnsureDir() error {
	if err := filesys.CreateDir(d.dir, 0755, true); err != nil {
		return errors.NewIOError(err, d.dir)
	}
	return nil
}
