// Package errs defines the error values returned by bindat.
//
// Every failure is reported as a sentinel error wrapped in an *Error
// envelope carrying a Kind, so callers can either match a precise
// condition with errors.Is or classify a failure with KindOf:
//
//	c, err := bindat.Decode(r)
//	switch errs.KindOf(err) {
//	case errs.KindIO:
//	    // broken stream, missing delimiter, truncated dataset
//	case errs.KindTextDecode:
//	    // header bytes are not UTF-8
//	case errs.KindParse:
//	    // header text is not a JSON document
//	}
package errs

import (
	"errors"
	"fmt"
)

// Header errors.
var (
	ErrMissingDelimiter  = errors.New("header delimiter not found")
	ErrHeaderTooLarge    = errors.New("header exceeds size limit")
	ErrInvalidText       = errors.New("header is not valid UTF-8 text")
	ErrMalformedMetadata = errors.New("malformed metadata document")
)

// Dataset errors.
var (
	ErrTruncatedLength  = errors.New("truncated dataset length prefix")
	ErrTruncatedDataset = errors.New("truncated dataset payload")
	ErrDatasetTooLarge  = errors.New("dataset length exceeds limit")
)

// Encoding errors.
var (
	ErrUnencodableMetadata = errors.New("metadata cannot be rendered as JSON")
	ErrEmbeddedNUL         = errors.New("rendered metadata contains a NUL byte")
	ErrNilContainer        = errors.New("nil container")
)

// Lifecycle and configuration errors.
var (
	ErrDecoderFinished        = errors.New("decoder already finished")
	ErrNilReader              = errors.New("nil reader")
	ErrNilWriter              = errors.New("nil writer")
	ErrInvalidOption          = errors.New("invalid option")
	ErrUnsupportedCompression = errors.New("unsupported compression type")
)

// Kind classifies an error by the stage that produced it.
type Kind uint8

const (
	KindUnknown    Kind = iota // KindUnknown is returned for errors not produced by bindat.
	KindIO                     // KindIO covers read/write failures and malformed framing.
	KindTextDecode             // KindTextDecode means the header is not valid text.
	KindParse                  // KindParse means the header text is not a JSON document.
	KindEncode                 // KindEncode means metadata could not be rendered.
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindTextDecode:
		return "text-decode"
	case KindParse:
		return "parse"
	case KindEncode:
		return "encode"
	default:
		return "unknown"
	}
}

// Error is the envelope for every error returned by the encoder and decoder.
type Error struct {
	// Kind is the failure class.
	Kind Kind
	// Op names the step that failed, e.g. "read header" or "write dataset 3".
	Op string
	// Err is the underlying cause, usually wrapping one of the sentinels above.
	Err error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("bindat: %s", e.Err)
	}

	return fmt.Sprintf("bindat: %s: %s", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err into an *Error of the given kind. It returns nil when err is nil.
func New(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}

	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind of the first *Error found in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}
