// Package encoding implements the two binary primitives of a bindat
// container: the 8-byte big-endian dataset length prefix and the float64
// payload block.
//
// # Payload layout
//
// A payload is a run of 8-byte IEEE-754 words in a fixed byte order
// (little-endian unless the caller chooses otherwise through an
// endian.EndianEngine). Values are copied bit for bit: NaN payloads and
// signed zeros survive a round trip.
//
// # Bulk path
//
// When the payload byte order matches the host, WriteFloat64s and
// ReadFloat64s move the slice memory directly with a single Write or
// io.ReadFull, without per-element work. On other hosts values are converted
// through pooled 64KiB chunks.
//
//	if err := encoding.WriteLength(w, len(values)); err != nil {
//	    return err
//	}
//	if err := encoding.WriteFloat64s(w, values, endian.PayloadEngine()); err != nil {
//	    return err
//	}
//
// # Termination
//
// ReadLength returns io.EOF only when the stream is exhausted exactly at a
// prefix boundary; a partial prefix yields io.ErrUnexpectedEOF. Callers use
// this distinction to detect the end of the dataset sequence.
package encoding
