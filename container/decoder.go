package container

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/arloliu/bindat/encoding"
	"github.com/arloliu/bindat/errs"
	"github.com/arloliu/bindat/format"
	"github.com/arloliu/bindat/metadata"
)

const readBufferSize = 64 << 10

// maxAddressableLen is the largest dataset whose payload size fits in an int.
const maxAddressableLen = math.MaxInt / format.ValueSize

// State is the position of a Decoder in its lifecycle.
type State uint8

const (
	StateStart           State = iota // StateStart is the state of a new decoder.
	StateReadingHeader                // StateReadingHeader is active while the header is read and parsed.
	StateReadingDatasets              // StateReadingDatasets is active while dataset blocks are read.
	StateDone                         // StateDone follows a clean end of stream at a dataset boundary.
	StateHeaderFailed                 // StateHeaderFailed follows any header error.
	StateDatasetFailed                // StateDatasetFailed follows any dataset error.
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateReadingHeader:
		return "ReadingHeader"
	case StateReadingDatasets:
		return "ReadingDatasets"
	case StateDone:
		return "Done"
	case StateHeaderFailed:
		return "HeaderFailed"
	case StateDatasetFailed:
		return "DatasetFailed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateHeaderFailed || s == StateDatasetFailed
}

// Decoder reads one container from a byte source.
//
// The decoder moves Start -> ReadingHeader -> ReadingDatasets -> Done, or
// ends in HeaderFailed / DatasetFailed at the first error. There is no
// resumption: a Decoder decodes exactly once.
type Decoder struct {
	r     *bufio.Reader
	cfg   *decoderConfig
	state State
}

// NewDecoder creates a decoder reading from r.
//
// Readers that are not already a *bufio.Reader are buffered internally, so
// the decoder may read past the end of the container; callers should hand it
// a source holding exactly one container.
//
// Parameters:
//   - r: Source, owned by the caller
//   - opts: Optional limits and payload byte order
//
// Returns:
//   - *Decoder: The decoder in StateStart
//   - error: errs.ErrNilReader or an invalid option error
func NewDecoder(r io.Reader, opts ...DecoderOption) (*Decoder, error) {
	if r == nil {
		return nil, errs.ErrNilReader
	}

	cfg, err := newDecoderConfig(opts)
	if err != nil {
		return nil, err
	}

	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, readBufferSize)
	}

	return &Decoder{r: br, cfg: cfg, state: StateStart}, nil
}

// State returns the current decoder state.
func (d *Decoder) State() State {
	return d.state
}

// Decode reads the header and every dataset until the source is exhausted.
//
// It either returns the complete container or an error and no container;
// datasets read before a failure are discarded. Errors are *errs.Error values
// classified as errs.KindIO, errs.KindTextDecode or errs.KindParse.
func (d *Decoder) Decode() (*Container, error) {
	if d.state != StateStart {
		return nil, errs.ErrDecoderFinished
	}

	d.state = StateReadingHeader
	doc, err := d.readHeader()
	if err != nil {
		d.state = StateHeaderFailed
		return nil, err
	}

	d.state = StateReadingDatasets
	datasets := [][]float64{}
	for {
		ds, ok, err := d.readDataset(len(datasets))
		if err != nil {
			d.state = StateDatasetFailed
			return nil, err
		}
		if !ok {
			break
		}
		datasets = append(datasets, ds)
	}
	d.state = StateDone

	return &Container{Metadata: doc, Datasets: datasets}, nil
}

func (d *Decoder) readHeader() (any, error) {
	var header []byte
	for {
		chunk, err := d.r.ReadSlice(format.HeaderDelimiter)
		header = append(header, chunk...)

		switch {
		case err == nil:
			text := header[:len(header)-1]
			if len(text) > d.cfg.maxHeaderSize {
				return nil, d.headerTooLarge()
			}

			return parseHeader(text)
		case errors.Is(err, bufio.ErrBufferFull):
			if len(header) > d.cfg.maxHeaderSize {
				return nil, d.headerTooLarge()
			}
		case errors.Is(err, io.EOF):
			return nil, errs.New(errs.KindIO, "read header",
				fmt.Errorf("%w after %d bytes", errs.ErrMissingDelimiter, len(header)))
		default:
			return nil, errs.New(errs.KindIO, "read header", err)
		}
	}
}

func (d *Decoder) headerTooLarge() error {
	return errs.New(errs.KindIO, "read header",
		fmt.Errorf("%w of %d bytes", errs.ErrHeaderTooLarge, d.cfg.maxHeaderSize))
}

func parseHeader(text []byte) (any, error) {
	doc, err := metadata.Parse(text)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidText) {
			return nil, errs.New(errs.KindTextDecode, "decode header", err)
		}

		return nil, errs.New(errs.KindParse, "parse header", err)
	}

	return doc, nil
}

// readDataset reads the dataset at position idx. It returns ok=false with a
// nil error on a clean end of stream at the length prefix boundary.
func (d *Decoder) readDataset(idx int) ([]float64, bool, error) {
	rows, err := encoding.ReadLength(d.r)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		return nil, false, nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		return nil, false, errs.New(errs.KindIO, fmt.Sprintf("read dataset %d length", idx),
			fmt.Errorf("%w: %w", errs.ErrTruncatedLength, err))
	default:
		return nil, false, errs.New(errs.KindIO, fmt.Sprintf("read dataset %d length", idx), err)
	}

	limit := uint64(maxAddressableLen)
	if d.cfg.maxDatasetLen > 0 {
		limit = min(limit, d.cfg.maxDatasetLen)
	}
	if rows > limit {
		return nil, false, errs.New(errs.KindIO, fmt.Sprintf("read dataset %d", idx),
			fmt.Errorf("%w: %d values, limit %d", errs.ErrDatasetTooLarge, rows, limit))
	}

	values, got, err := encoding.ReadFloat64s(d.r, int(rows), d.cfg.payload)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			err = fmt.Errorf("%w: want %d values, got %d: %w", errs.ErrTruncatedDataset, rows, got, err)
		}

		return nil, false, errs.New(errs.KindIO, fmt.Sprintf("read dataset %d payload", idx), err)
	}

	return values, true, nil
}

// Unmarshal decodes a container from data.
func Unmarshal(data []byte, opts ...DecoderOption) (*Container, error) {
	dec, err := NewDecoder(bytes.NewReader(data), opts...)
	if err != nil {
		return nil, err
	}

	return dec.Decode()
}
