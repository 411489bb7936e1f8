package cryptoutil

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/errors"
)

func TestDigestKnownValue(t *testing.T) {
	got, err := Digest(SHA256, []byte("abc"))
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	want := "sha256:ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("Digest = %s, want %s", got, want)
	}
}

func TestDigestAlgorithms(t *testing.T) {
	for _, alg := range []HashAlgorithm{SHA256, SHA512, BLAKE2b256, "BLAKE2B", ""} {
		a, err := Digest(alg, []byte(`{"a":1}`))
		if err != nil {
			t.Fatalf("Digest(%q): %v", alg, err)
		}
		b, _ := Digest(alg, []byte(`{"a":2}`))
		if a == b {
			t.Errorf("Digest(%q) did not distinguish inputs", alg)
		}
		if !strings.Contains(a, ":") {
			t.Errorf("Digest(%q) = %s, expected algorithm prefix", alg, a)
		}
	}
}

func TestUnsupportedAlgorithm(t *testing.T) {
	_, err := NewHasher("md4")
	if !stderrors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}
