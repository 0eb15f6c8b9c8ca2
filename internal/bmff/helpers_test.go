package bmff

import (
	"github.com/vegidio/goavif/internal/averr"
	"github.com/vegidio/goavif/internal/bitstream"
)

func newTestReader(b []byte) *bitstream.Reader { return bitstream.NewReader(b) }

func errIsTruncated(err error) bool { return averr.Is(err, averr.TruncatedData) }
