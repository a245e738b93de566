//go:build !amd64

package csvio

func detectCapabilities() Capabilities {
	return Capabilities{}
}
