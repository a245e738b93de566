//go:build amd64

package csvio

import "golang.org/x/sys/cpu"

func detectCapabilities() Capabilities {
	return Capabilities{AVX2: cpu.X86.HasAVX2, AVX512: cpu.X86.HasAVX512F}
}
