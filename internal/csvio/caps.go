package csvio

// Capabilities reports the CPU features breakdown prints on its
// "tokenizer:" line (e.g. "SWAR (AVX2 available, no asm backend
// built)"). This is diagnostic only: the scanner always runs the pure
// Go bitmap scan in internal/csvio/simd regardless of what's detected —
// no assembly backend exists in this tree to dispatch to
// (detectCapabilities is platform-gated in caps_amd64.go/caps_other.go).
type Capabilities struct {
	AVX2   bool
	AVX512 bool
}

// DetectCapabilities reads CPU feature flags once; cheap enough to call
// per process start.
func DetectCapabilities() Capabilities {
	return detectCapabilities()
}

func (c Capabilities) String() string {
	switch {
	case c.AVX512:
		return "SWAR (AVX-512 available, no asm backend built)"
	case c.AVX2:
		return "SWAR (AVX2 available, no asm backend built)"
	default:
		return "SWAR (no AVX acceleration available)"
	}
}
