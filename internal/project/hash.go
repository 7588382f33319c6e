package project

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Digest - фиксированный 256-битный хеш содержимого файла или комментария.
type Digest [32]byte

// Sum hashes data.
func Sum(data []byte) Digest {
	return sha256.Sum256(data)
}

// FileDigest hashes the file at path without loading it whole.
func FileDigest(path string) (Digest, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, err
	}
	defer f.Close() //nolint:errcheck

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return Digest{}, fmt.Errorf("hash %s: %w", path, err)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out, nil
}

// Combine строит общий хеш: H( a || b || ... ). Порядок важен.
func Combine(parts ...Digest) Digest {
	h := sha256.New()
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Hex returns the lowercase hex form.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports an unset digest.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// SameContent reports whether two files hold identical bytes.
// Sizes are compared first so unequal files are rarely hashed.
func SameContent(a, b string) (bool, error) {
	sa, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	sb, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	if sa.Size() != sb.Size() {
		return false, nil
	}
	da, err := FileDigest(a)
	if err != nil {
		return false, err
	}
	db, err := FileDigest(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(da[:], db[:]), nil
}
