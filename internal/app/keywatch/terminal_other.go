//go:build !unix

package keywatch

// Stdin reports that raw keyboard input is unavailable on this platform.
func Stdin() (Terminal, bool) {
	return nil, false
}
