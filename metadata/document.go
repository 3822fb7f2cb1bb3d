// Package metadata renders and parses the JSON document stored in a bindat
// header.
//
// A document is any JSON value tree: map[string]any, []any, string, numbers,
// bool or nil. Parsed numbers are returned as json.Number so that integer
// identifiers wider than 53 bits keep their exact text through a
// decode/encode cycle. Rendering sorts object keys, which makes the header
// bytes a deterministic function of the document.
package metadata

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/arloliu/bindat/errs"
)

// DefaultIndent is the indentation used for human-readable headers.
const DefaultIndent = "  "

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Render encodes doc as JSON text. An empty prefix and indent produce compact
// output; anything else is pretty-printed with json.MarshalIndent semantics.
//
// Render fails with errs.ErrUnencodableMetadata when doc holds values JSON
// cannot represent (channels, functions, NaN or infinite floats), and with
// errs.ErrEmbeddedNUL when the output would contain a NUL byte, which would
// terminate the header early.
func Render(doc any, prefix, indent string) ([]byte, error) {
	var (
		text []byte
		err  error
	)
	if prefix == "" && indent == "" {
		text, err = json.Marshal(doc)
	} else {
		text, err = json.MarshalIndent(doc, prefix, indent)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrUnencodableMetadata, err)
	}

	if i := bytes.IndexByte(text, 0); i >= 0 {
		return nil, fmt.Errorf("%w at offset %d", errs.ErrEmbeddedNUL, i)
	}

	return text, nil
}

// Parse decodes header text into a document.
//
// The text must be UTF-8 (a leading byte order mark is ignored) and hold
// exactly one JSON value, optionally surrounded by whitespace. Invalid text
// yields errs.ErrInvalidText; malformed JSON yields errs.ErrMalformedMetadata.
func Parse(text []byte) (any, error) {
	text = bytes.TrimPrefix(text, utf8BOM)

	if !utf8.Valid(text) {
		return nil, fmt.Errorf("%w: invalid byte at offset %d", errs.ErrInvalidText, invalidUTF8Offset(text))
	}

	// goccy's Valid accepts raw control characters in strings and leading
	// zeros in numbers, so the grammar is checked with encoding/json.
	if !stdjson.Valid(text) {
		var v any
		if err := stdjson.Unmarshal(text, &v); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrMalformedMetadata, err)
		}

		return nil, fmt.Errorf("%w: not a single JSON value", errs.ErrMalformedMetadata)
	}

	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrMalformedMetadata, err)
	}

	return doc, nil
}

// Normalize returns the canonical form of doc: the tree Parse would return
// for doc's rendering, with every number reduced to its exact rational value.
// Two documents are semantically equal when their normal forms are deeply equal.
func Normalize(doc any) (any, error) {
	text, err := Render(doc, "", "")
	if err != nil {
		return nil, err
	}

	parsed, err := Parse(text)
	if err != nil {
		return nil, err
	}

	return canonicalNumbers(parsed), nil
}

// Equal reports whether a and b are the same JSON document. Numbers compare
// by value, so 1, 1.0 and 1e0 are equal. Documents that cannot be rendered
// are never equal.
func Equal(a, b any) bool {
	na, err := Normalize(a)
	if err != nil {
		return false
	}

	nb, err := Normalize(b)
	if err != nil {
		return false
	}

	return reflect.DeepEqual(na, nb)
}

func canonicalNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = canonicalNumbers(child)
		}

		return t
	case []any:
		for i, child := range t {
			t[i] = canonicalNumbers(child)
		}

		return t
	case json.Number:
		r, ok := new(big.Rat).SetString(string(t))
		if !ok {
			return string(t)
		}

		return number(r.RatString())
	default:
		return v
	}
}

// number is the canonical representation of a JSON number inside a
// normalized document. It is distinct from string so "1" and 1 differ.
type number string

func invalidUTF8Offset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}

	return -1
}
