//go:build !unix

package region

// reserve falls back to ordinary Go-allocated memory on platforms without
// anonymous mappings.
func reserve(max int) (*Region, error) {
	return &Region{data: make([]byte, max)}, nil
}

// decommit is a no-op in the fallback: the Go runtime owns the pages.
func decommit(_ []byte) error {
	return nil
}
