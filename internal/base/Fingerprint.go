package base

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/minio/sha256-simd"
)

var LogFingerprint = NewLogCategory("Fingerprint")

// Fingerprint is the 32-byte SHA-256 content digest used to deduplicate
// built variants.
type Fingerprint [sha256.Size]byte

func (x Fingerprint) Slice() []byte { return x[:] }

func (x Fingerprint) String() string {
	return hex.EncodeToString(x[:])
}

func (x Fingerprint) ShortString() string {
	return hex.EncodeToString(x[:8])
}

func (x Fingerprint) Valid() bool {
	for _, b := range x {
		if b != 0 {
			return true
		}
	}
	return false
}

func (x Fingerprint) MarshalText() ([]byte, error) {
	buf := make([]byte, hex.EncodedLen(len(x)))
	hex.Encode(buf, x[:])
	return buf, nil
}

func (x *Fingerprint) UnmarshalText(data []byte) error {
	n, err := hex.Decode(x[:], data)
	if err != nil {
		return err
	}
	if n != sha256.Size {
		return fmt.Errorf("fingerprint: unexpected string length %q", data)
	}
	return nil
}

// ReaderFingerprint hashes an io.Reader with sha256-simd, the same
// hardware-accelerated digester the teacher's build-cache layer uses to key
// compiled artifacts: it is chosen here for the same reason, ubiquitous CPU
// acceleration of SHA-256 on the very machines this tool targets.
func ReaderFingerprint(rd io.Reader) (result Fingerprint, err error) {
	digester := sha256.New()
	if _, err = io.Copy(digester, rd); err != nil {
		return
	}
	copy(result[:], digester.Sum(nil))
	return
}

func BytesFingerprint(data []byte) Fingerprint {
	sum := sha256.Sum256(data)
	return Fingerprint(sum)
}
