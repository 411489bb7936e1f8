package compression

import (
	"bytes"
	"io"

	"github.com/ulikunitz/xz"
)

func compressXZ(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	xzWriter, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}

	if _, err := xzWriter.Write(data); err != nil {
		xzWriter.Close()
		return nil, err
	}
	if err := xzWriter.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressXZ(data []byte) ([]byte, error) {
	xzReader, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return io.ReadAll(xzReader)
}
