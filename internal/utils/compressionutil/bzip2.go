package compression

import (
	"bytes"
	"io"

	"github.com/dsnet/compress/bzip2"
)

func compressBZIP2(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	bzip2Writer, err := bzip2.NewWriter(&buf, nil)
	if err != nil {
		return nil, err
	}

	if _, err := bzip2Writer.Write(data); err != nil {
		bzip2Writer.Close()
		return nil, err
	}
	if err := bzip2Writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressBZIP2(data []byte) ([]byte, error) {
	bzip2Reader, err := bzip2.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		return nil, err
	}
	defer bzip2Reader.Close()

	return io.ReadAll(bzip2Reader)
}
