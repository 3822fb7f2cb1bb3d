package encoding

import (
	"bytes"
	"io"
	"testing"
)

func BenchmarkWriteFloat64s(b *testing.B) {
	values := make([]float64, 1<<16)
	for i := range values {
		values[i] = float64(i)
	}

	for _, tt := range testEngines {
		b.Run(tt.name, func(b *testing.B) {
			b.SetBytes(int64(len(values) * 8))
			b.ReportAllocs()
			for b.Loop() {
				_ = WriteFloat64s(io.Discard, values, tt.engine)
			}
		})
	}
}

func BenchmarkReadFloat64s(b *testing.B) {
	values := make([]float64, 1<<16)
	for _, tt := range testEngines {
		data := AppendFloat64s(nil, values, tt.engine)
		b.Run(tt.name, func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for b.Loop() {
				_, _, _ = ReadFloat64s(bytes.NewReader(data), len(values), tt.engine)
			}
		})
	}
}
