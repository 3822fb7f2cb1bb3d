// Package store reads and writes bindat containers as files.
//
// WriteFile encodes into a temporary file next to the destination, syncs it
// and renames it into place, so readers never observe a partial container.
// The file may be wrapped in whole-file compression chosen explicitly with
// WithCompression or implied by the extension (.zst, .s2, .lz4).
//
// ReadFile maps the file read-only where the platform supports mmap and
// falls back to a plain read elsewhere. Compression is detected from the
// leading bytes, so the extension does not need to match the content.
//
//	stats, err := store.WriteFile("run.bindat.zst", c)
//	...
//	c, err := store.ReadFile("run.bindat.zst")
package store
