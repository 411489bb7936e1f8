// Package cryptoutil computes content digests used to tell whether a workflow
// document changed between load and write-back.
package cryptoutil

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/errors"
)

// HashAlgorithm represents supported hash algorithms
type HashAlgorithm string

const (
	// SHA256 algorithm
	SHA256 HashAlgorithm = "sha256"

	// SHA512 algorithm
	SHA512 HashAlgorithm = "sha512"

	// BLAKE2b256 algorithm
	BLAKE2b256 HashAlgorithm = "blake2b"
)

// Hasher hashes byte slices into hex digests
type Hasher interface {
	// Algorithm returns the algorithm name
	Algorithm() HashAlgorithm

	// Hash hashes the provided data
	Hash(data []byte) (string, error)
}

type hasherImpl struct {
	algorithm HashAlgorithm
	newHash   func() (hash.Hash, error)
}

// NewHasher creates a new Hasher for the specified algorithm
func NewHasher(algorithm HashAlgorithm) (Hasher, error) {
	var newHashFunc func() (hash.Hash, error)

	switch HashAlgorithm(strings.ToLower(string(algorithm))) {
	case SHA256, "":
		algorithm = SHA256
		newHashFunc = func() (hash.Hash, error) { return sha256.New(), nil }
	case SHA512:
		algorithm = SHA512
		newHashFunc = func() (hash.Hash, error) { return sha512.New(), nil }
	case BLAKE2b256, "blake2b-256":
		algorithm = BLAKE2b256
		newHashFunc = func() (hash.Hash, error) { return blake2b.New256(nil) }
	default:
		return nil, fmt.Errorf("%w: unsupported hash algorithm '%s'", errors.ErrInvalidArgument, algorithm)
	}

	return &hasherImpl{
		algorithm: algorithm,
		newHash:   newHashFunc,
	}, nil
}

func (h *hasherImpl) Algorithm() HashAlgorithm {
	return h.algorithm
}

// Hash hashes the provided data
func (h *hasherImpl) Hash(data []byte) (string, error) {
	hasher, err := h.newHash()
	if err != nil {
		return "", fmt.Errorf("%w: %s", errors.ErrInvalidHasher, err.Error())
	}
	if _, err := hasher.Write(data); err != nil {
		return "", fmt.Errorf("hash operation failed: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Digest hashes data and prefixes the algorithm, e.g. "sha256:ab12...".
func Digest(algorithm HashAlgorithm, data []byte) (string, error) {
	hasher, err := NewHasher(algorithm)
	if err != nil {
		return "", err
	}
	sum, err := hasher.Hash(data)
	if err != nil {
		return "", err
	}
	return string(hasher.Algorithm()) + ":" + sum, nil
}
