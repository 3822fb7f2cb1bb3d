// Package container implements the bindat container format: a JSON metadata
// header followed by any number of float64 datasets.
//
// # Wire Format
//
//	<JSON text> '\n' 0x00
//	{ <uint64 big-endian N> <N x float64 little-endian IEEE-754> } *
//
// The NUL byte is the only end-of-header marker; the newline before it is
// cosmetic. There is no magic number, version tag or dataset count: the
// decoder reads datasets until the stream ends exactly where a new length
// prefix would start. A stream ending anywhere else is truncated.
//
// # Encoding
//
//	c := container.New()
//	c.SetMetadata(map[string]any{"run": 42, "sensor": "thermo-1"})
//	c.Append([]float64{20.1, 20.4, 20.3}, []float64{})
//
//	enc, err := container.NewEncoder(w)
//	if err != nil {
//	    return err
//	}
//	if err := enc.Encode(c); err != nil {
//	    return err
//	}
//
// # Decoding
//
//	dec, err := container.NewDecoder(r)
//	if err != nil {
//	    return err
//	}
//	c, err := dec.Decode()
//	if err != nil {
//	    switch errs.KindOf(err) {
//	    case errs.KindIO:        // read failure, missing delimiter, truncation
//	    case errs.KindTextDecode: // header is not UTF-8
//	    case errs.KindParse:     // header is not JSON
//	    }
//	}
//
// Decoding either returns the whole container or fails at the first problem
// with no partial result.
//
// # Concurrency
//
// Encoders and decoders are single-use, sequential values. Independent
// encoders and decoders over independent sinks and sources may run in
// parallel.
package container
