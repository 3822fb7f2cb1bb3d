//go:build !unix

package store

import "os"

// loadFile reads path into memory; this platform has no mmap path.
func loadFile(path string, _ bool) ([]byte, func() error, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, false, err
	}

	return data, func() error { return nil }, false, nil
}
