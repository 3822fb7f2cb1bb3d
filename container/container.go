package container

// Container is a metadata document plus an ordered list of float64 datasets.
//
// Metadata holds any JSON value tree; nil encodes as the JSON null. Datasets
// keep their order through encode and decode, and each dataset may be empty.
// A Container is a plain value: the encoder and decoder never retain or
// share it.
type Container struct {
	Metadata any
	Datasets [][]float64
}

// New returns an empty container: null metadata and no datasets.
func New() *Container {
	return &Container{Datasets: [][]float64{}}
}

// SetMetadata replaces the metadata document.
func (c *Container) SetMetadata(doc any) {
	c.Metadata = doc
}

// Append adds datasets to the end of the dataset list. The slices are stored
// as given, not copied.
func (c *Container) Append(datasets ...[]float64) {
	c.Datasets = append(c.Datasets, datasets...)
}

// Len returns the number of datasets.
func (c *Container) Len() int {
	return len(c.Datasets)
}

// Dataset returns the dataset at index i.
func (c *Container) Dataset(i int) ([]float64, bool) {
	if i < 0 || i >= len(c.Datasets) {
		return nil, false
	}

	return c.Datasets[i], true
}

// TotalValues returns the number of values across all datasets.
func (c *Container) TotalValues() int {
	total := 0
	for _, ds := range c.Datasets {
		total += len(ds)
	}

	return total
}

// EncodedSize returns the exact number of bytes an Encoder with opts writes
// for c. See the package-level EncodedSize.
func (c *Container) EncodedSize(opts ...EncoderOption) (int64, error) {
	return EncodedSize(c, opts...)
}
