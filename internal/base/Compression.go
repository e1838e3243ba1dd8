package base

import (
	"bytes"
	"io"

	"github.com/DataDog/zstd"
	"github.com/pierrec/lz4/v4"
)

var LogCompression = NewLogCategory("Compression")

/***************************************
 * ZStd -- fallback executable compression
 ***************************************/

// CompressZstd mirrors internal/base/Compression.go's zstd wrapper in the
// teacher repo: a thin call into DataDog/zstd at an explicit level, used by
// the patch/pack builder to shrink the embedded fallback binary.
func CompressZstd(data []byte, level int) ([]byte, error) {
	return zstd.CompressLevel(nil, data, level)
}

func DecompressZstd(compressed []byte) ([]byte, error) {
	return zstd.Decompress(nil, compressed)
}

/***************************************
 * LZ4 -- spill compression for oversized trace/debug artifacts
 ***************************************/

// CompressLZ4 trades ratio for speed, exactly the rationale the teacher
// gives for defaulting to LZ4 over zstd for anything that isn't the final
// shipped artifact: it is almost free compared to writing the bytes raw.
func CompressLZ4(data []byte) ([]byte, error) {
	buf := bytes.Buffer{}
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecompressLZ4(compressed []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(compressed))
	return io.ReadAll(r)
}
