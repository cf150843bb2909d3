package chapterfile

import (
	"encoding/xml"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/chapterforge/chapterforge-server/internal/chapters"
	apperrors "github.com/chapterforge/chapterforge-server/internal/errors"
)

// Outcome reports what a Write call did.
type Outcome string

const (
	// OutcomeWritten means the chapter document was created or replaced.
	OutcomeWritten Outcome = "written"
	// OutcomeSkippedEmpty means the chapter list was empty and no file was touched.
	OutcomeSkippedEmpty Outcome = "skipped_empty"
	// OutcomeSkippedExists means a file already existed and overwrite was off;
	// the existing file is left byte-identical.
	OutcomeSkippedExists Outcome = "skipped_exists"
	// OutcomeFailed means the write errored.
	OutcomeFailed Outcome = "failed"
)

// Writer serializes chapter lists to disk.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a new chapter file writer.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logger}
}

// Write serializes chapters to an XML chapter document at path, applying
// the overwrite policy. The parent directory is created if absent.
//
// The write is a single pass with no temporary-file-then-rename step: a
// crash mid-write can leave a truncated file. Callers relying on document
// integrity must treat the output as provisional until a subsequent
// successful run overwrites it.
func (w *Writer) Write(path string, chs []chapters.Chapter, overwrite bool) (Outcome, error) {
	if len(chs) == 0 {
		return OutcomeSkippedEmpty, nil
	}

	// Existence check. A stat failure other than "absent" is a real error
	// and must not be silently treated like a missing file.
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			w.logger.Debug("chapter file exists, overwrite disabled", "path", path)
			return OutcomeSkippedExists, nil
		}
	} else if !apperrors.Is(err, fs.ErrNotExist) {
		return OutcomeFailed, apperrors.Wrapf(err, apperrors.CodeWriteFailed, "stat %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return OutcomeFailed, apperrors.Wrapf(err, apperrors.CodeWriteFailed, "create directory for %s", path)
	}

	doc, err := newDocument(chs)
	if err != nil {
		return OutcomeFailed, apperrors.Wrap(err, apperrors.CodeWriteFailed, "build chapter document")
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return OutcomeFailed, apperrors.Wrap(err, apperrors.CodeWriteFailed, "marshal chapter document")
	}

	data := make([]byte, 0, len(xml.Header)+len(body)+1)
	data = append(data, xml.Header...)
	data = append(data, body...)
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return OutcomeFailed, apperrors.Wrapf(err, apperrors.CodeWriteFailed, "write %s", path)
	}

	w.logger.Debug("chapter file written", "path", path, "chapters", len(chs))
	return OutcomeWritten, nil
}
