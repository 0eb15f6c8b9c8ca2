package bmff

import (
	"github.com/vegidio/goavif/internal/averr"
	"github.com/vegidio/goavif/internal/bitstream"
)

// box is a single parsed ISO-BMFF box header plus its raw payload.
type box struct {
	boxType string
	payload []byte
}

// walkBoxes iterates the top-level boxes in buf, invoking fn with each
// box's type and payload (header stripped). Iteration stops at the first
// error returned by fn, or when the buffer is exhausted.
func walkBoxes(buf []byte, fn func(b box) error) error {
	r := bitstream.NewReader(buf)
	for r.Len() > 0 {
		b, err := readBox(r)
		if err != nil {
			return err
		}
		if err := fn(b); err != nil {
			return err
		}
	}
	return nil
}

// readBox reads one box header (size + type, including the 64-bit
// large-size extension) and returns its payload slice.
func readBox(r *bitstream.Reader) (box, error) {
	if r.Len() < 8 {
		return box{}, averr.New(averr.TruncatedData)
	}
	size64 := uint64(0)
	size32, err := r.U32()
	if err != nil {
		return box{}, err
	}
	boxType, err := r.FourCC()
	if err != nil {
		return box{}, err
	}

	headerLen := 8
	switch size32 {
	case 1:
		size64, err = r.U64()
		if err != nil {
			return box{}, err
		}
		headerLen = 16
	case 0:
		// box extends to end of buffer
		size64 = uint64(r.Len() + headerLen)
	default:
		size64 = uint64(size32)
	}

	if size64 < uint64(headerLen) {
		return box{}, averr.Newf(averr.BmffParseFailed, "box %q has invalid size %d", boxType, size64)
	}
	payloadLen := size64 - uint64(headerLen)
	if payloadLen > uint64(r.Len()) {
		return box{}, averr.New(averr.TruncatedData)
	}

	payload, err := r.Bytes(int(payloadLen))
	if err != nil {
		return box{}, err
	}
	return box{boxType: boxType, payload: payload}, nil
}

// fullBoxHeader reads the 1-byte version + 3-byte flags header common to
// every "full box" (iinf, iloc, iprp associations, iref, pitm, ...).
func fullBoxHeader(r *bitstream.Reader) (version uint8, flags uint32, err error) {
	version, err = r.U8()
	if err != nil {
		return 0, 0, err
	}
	flags, err = r.U24()
	if err != nil {
		return 0, 0, err
	}
	return version, flags, nil
}
