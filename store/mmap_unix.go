//go:build unix

package store

import (
	"errors"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// loadFile returns the contents of path and a function releasing them.
// Non-empty files are mapped read-only when useMmap is set; when mapping
// is unavailable the file is read into memory instead.
func loadFile(path string, useMmap bool) ([]byte, func() error, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, false, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, false, err
	}

	size := stat.Size()
	if size > math.MaxInt {
		return nil, nil, false, errors.New("file too large to address")
	}

	noop := func() error { return nil }
	if size == 0 {
		return []byte{}, noop, false, nil
	}

	if useMmap {
		data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
		if err == nil {
			return data, func() error { return unix.Munmap(data) }, true, nil
		}
	}

	data, err := readAll(f, size)
	if err != nil {
		return nil, nil, false, err
	}

	return data, noop, false, nil
}
