package equity

import (
	"fmt"
	"io"
	"os"
)

// WriterSink streams each ledger entry as one JSONL line to a writer.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a sink over any writer.
func NewWriterSink(w io.Writer) *WriterSink { return &WriterSink{w: w} }

// Append implements ReportSink.
func (s *WriterSink) Append(entry LedgerEntry) error {
	return EncodeEntry(s.w, entry)
}

// FileSink persists ledger entries to a JSONL file, one line appended per
// entry. The file is created on first append.
type FileSink struct {
	path string
	f    *os.File
}

// NewFileSink creates a sink writing to the given path. Nothing is opened
// until the first entry arrives.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Append implements ReportSink.
func (s *FileSink) Append(entry LedgerEntry) error {
	if s.f == nil {
		f, err := os.Create(s.path)
		if err != nil {
			return fmt.Errorf("could not create ledger file %q: %w", s.path, err)
		}
		s.f = f
	}
	return EncodeEntry(s.f, entry)
}

// Close flushes and closes the underlying file. It is a no-op if nothing was
// ever appended.
func (s *FileSink) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

var _ ReportSink = (*WriterSink)(nil)
var _ ReportSink = (*FileSink)(nil)
