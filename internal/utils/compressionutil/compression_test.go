package compression

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/errors"
)

func TestCompressRoundTrip(t *testing.T) {
	payload := []byte(`{"name":"demo","config":{"steps":[]}}` + "\n")

	for _, format := range []Format{FormatNone, FormatGzip, FormatBzip2, FormatXZ} {
		t.Run(string(format), func(t *testing.T) {
			packed, err := Compress(payload, format)
			require.NoError(t, err)

			assert.Equal(t, format, DetectFormat("workflow.json", packed))

			plain, err := Decompress(packed, format)
			require.NoError(t, err)
			assert.Equal(t, payload, plain)
		})
	}
}

func TestDetectFormatByExtension(t *testing.T) {
	assert.Equal(t, FormatGzip, DetectFormat("a.json.gz", nil))
	assert.Equal(t, FormatBzip2, DetectFormat("a.json.bz2", nil))
	assert.Equal(t, FormatXZ, DetectFormat("a.json.XZ", nil))
	assert.Equal(t, FormatNone, DetectFormat("a.json", []byte("{")))
}

func TestDecompressCorruptData(t *testing.T) {
	_, err := Decompress([]byte("not gzip"), FormatGzip)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrDecompressionFailed))
}
