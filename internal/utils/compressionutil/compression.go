package compression

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/errors"
)

// Format identifies how a workflow file is stored on disk
type Format string

const (
	FormatNone  Format = "none"
	FormatGzip  Format = "gzip"
	FormatBzip2 Format = "bzip2"
	FormatXZ    Format = "xz"
)

var magicNumbers = map[Format][]byte{
	FormatGzip:  {0x1F, 0x8B},
	FormatBzip2: {0x42, 0x5A, 0x68},
	FormatXZ:    {0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00},
}

// DetectFormat determines the compression format from the content's magic
// number, falling back to the file extension. Plain files are FormatNone.
func DetectFormat(filename string, header []byte) Format {
	for _, format := range []Format{FormatXZ, FormatBzip2, FormatGzip} {
		if bytes.HasPrefix(header, magicNumbers[format]) {
			return format
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".gz", ".gzip":
		return FormatGzip
	case ".bz2":
		return FormatBzip2
	case ".xz":
		return FormatXZ
	}
	return FormatNone
}

// Decompress returns the plain content of data stored in the given format
func Decompress(data []byte, format Format) ([]byte, error) {
	var (
		out []byte
		err error
	)

	switch format {
	case FormatNone:
		return data, nil
	case FormatGzip:
		out, err = decompressGZIP(data)
	case FormatBzip2:
		out, err = decompressBZIP2(data)
	case FormatXZ:
		out, err = decompressXZ(data)
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedCompression, format)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", errors.ErrDecompressionFailed, format, err.Error())
	}
	return out, nil
}

// Compress encodes plain data in the given format
func Compress(data []byte, format Format) ([]byte, error) {
	var (
		out []byte
		err error
	)

	switch format {
	case FormatNone:
		return data, nil
	case FormatGzip:
		out, err = compressGZIP(data)
	case FormatBzip2:
		out, err = compressBZIP2(data)
	case FormatXZ:
		out, err = compressXZ(data)
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedCompression, format)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", errors.ErrCompressionFailed, format, err.Error())
	}
	return out, nil
}
