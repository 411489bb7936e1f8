package workflow

import (
	"fmt"
	"os"

	compression "github.com/deploymenttheory/go-workflow-autofix/internal/utils/compressionutil"
	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/errors"
	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/fsutil"
)

// File records where a document was loaded from and how it was stored, so it
// can be written back in the same form.
type File struct {
	Path   string
	Format compression.Format
	Mode   os.FileMode
	Plain  []byte // decompressed content as read
}

// WriteOptions controls how a document is written back
type WriteOptions struct {
	Indent int  // spaces per indentation level
	Backup bool // copy the original to <path>.bak first
}

// DefaultWriteOptions writes 2-space indented JSON without a backup
var DefaultWriteOptions = WriteOptions{Indent: 2}

// LoadFile reads and parses a workflow file, transparently decompressing
// gzip, bzip2 and xz content.
func LoadFile(path string) (*Document, *File, error) {
	if !fsutil.FileExists(path) {
		return nil, nil, fmt.Errorf("%w: %s", errors.ErrFileNotFound, path)
	}

	raw, err := fsutil.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", errors.ErrFileReadError, err.Error())
	}

	format := compression.DetectFormat(path, raw)
	plain, err := compression.Decompress(raw, format)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", errors.ErrMalformedDocument, err.Error())
	}

	doc, err := Parse(plain)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, &File{
		Path:   path,
		Format: format,
		Mode:   fsutil.FileMode(path, 0o644),
		Plain:  plain,
	}, nil
}

// SaveFile writes doc back to file.Path in file.Format. Any failure is
// reported as ErrPersistenceFailure; the file is replaced atomically so a
// failed write leaves the original in place.
func SaveFile(doc *Document, file *File, opts WriteOptions) ([]byte, error) {
	data, err := doc.Encode(opts.Indent)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrPersistenceFailure, err.Error())
	}

	packed, err := compression.Compress(data, file.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrPersistenceFailure, err.Error())
	}

	if opts.Backup {
		if err := fsutil.CopyFile(file.Path, file.Path+".bak"); err != nil {
			return nil, fmt.Errorf("%w: %w: %s", errors.ErrPersistenceFailure, errors.ErrFileBackupError, err.Error())
		}
	}

	if err := fsutil.WriteFileAtomic(file.Path, packed, file.Mode); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", errors.ErrPersistenceFailure, file.Path, err.Error())
	}
	return data, nil
}
