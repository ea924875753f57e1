// Package segment implements the on-disk segment log (C3) and the
// segment directory that manages a set of segment files (C4).
package segment

import (
	"io"
	"os"

	"github.com/cmsd2/kvs/internal/lines"
	"github.com/cmsd2/kvs/pkg/errors"
)

// Segment wraps one open segment file, providing append, read-at-offset,
// and full-scan access. Reads and writes share a single file handle; every
// public method leaves the cursor either at end-of-file (after Append) or
// wherever the last read left it, and never interleaves a partial write.
type Segment struct {
	id   uint64
	path string
	file *os.File
}

// open wraps an already-opened file as a Segment. Callers (Directory)
// own creating/opening the *os.File with the right flags.
func open(id uint64, path string, file *os.File) *Segment {
	return &Segment{id: id, path: path, file: file}
}

// ID returns the segment's id.
func (s *Segment) ID() uint64 { return s.id }

// Path returns the segment's file path.
func (s *Segment) Path() string { return s.path }

// Append seeks to end-of-file, writes record followed by a single "\n",
// and returns the byte offset at which the record starts.
func (s *Segment) Append(record string) (int64, error) {
	offset, err := s.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, errors.NewIOError(err, s.path)
	}

	if _, err := s.file.WriteString(record); err != nil {
		return 0, errors.NewIOError(err, s.path)
	}
	if _, err := s.file.WriteString("\n"); err != nil {
		return 0, errors.NewIOError(err, s.path)
	}

	return offset, nil
}

// ReadAt seeks to offset and reads exactly one line (up to and including
// the next "\n"), returning it without the terminator. offset must be the
// starting offset of a previously-appended record.
func (s *Segment) ReadAt(offset int64) (string, error) {
	if _, err := s.file.Seek(offset, io.SeekStart); err != nil {
		return "", errors.NewIOError(err, s.path).WithOffset(offset).WithSegmentID(s.id)
	}

	reader := lines.NewReader(s.file)
	line, err := reader.Next()
	if err != nil {
		if err == io.EOF {
			return "", errors.NewIOError(io.ErrUnexpectedEOF, s.path).WithOffset(offset).WithSegmentID(s.id)
		}
		return "", err
	}

	return line.Text, nil
}

// Scan seeks to the start of the file and drives visit once per record
// with (text, offset), in ascending offset order. visit returns
// (continue, err); returning continue=false stops the scan early without
// error, matching the source's Visitor::line contract.
func (s *Segment) Scan(visit func(text string, offset int64) (bool, error)) error {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return errors.NewIOError(err, s.path).WithSegmentID(s.id)
	}

	reader := lines.NewReader(s.file)
	for {
		line, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		cont, err := visit(line.Text, line.Offset)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}

// Size returns the segment file's current length in bytes.
func (s *Segment) Size() (int64, error) {
	info, err := s.file.Stat()
	if err != nil {
		return 0, errors.NewIOError(err, s.path).WithSegmentID(s.id)
	}
	return info.Size(), nil
}

// Close closes the underlying file handle.
func (s *Segment) Close() error {
	if err := s.file.Close(); err != nil {
		return errors.NewIOError(err, s.path).WithSegmentID(s.id)
	}
	return nil
}
