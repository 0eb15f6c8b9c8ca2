package bmff

import (
	"github.com/vegidio/goavif/internal/averr"
	"github.com/vegidio/goavif/internal/bitstream"
)

// tiffHeaderBE/LE are the two valid TIFF byte-order markers, each read as a
// big-endian u32: "MM\x00*" (big-endian TIFF) and "II*\x00" (little-endian
// TIFF).
const (
	tiffHeaderBE = 0x4D4D002A
	tiffHeaderLE = 0x49492A00
)

// VerifyExifHeader checks an "Exif" item's exif_tiff_header_offset sentinel
// against the payload's actual TIFF header position, without parsing the
// TIFF structure itself (spec.md §1 scopes out TIFF parsing beyond this
// sentinel check).
//
// Layout: a big-endian uint32 exif_tiff_header_offset, followed by the TIFF
// payload. The declared offset must match the byte offset (from just after
// the offset field) at which "MM\x00*" or "II*\x00" actually occurs.
func VerifyExifHeader(payload []byte) error {
	r := bitstream.NewReader(payload)

	declaredOffset, err := r.U32()
	if err != nil {
		return averr.Wrap(averr.InvalidExifPayload, err, "reading exif_tiff_header_offset")
	}

	actualOffset, err := findTiffHeaderOffset(r)
	if err != nil {
		return err
	}
	if declaredOffset != actualOffset {
		return averr.Newf(averr.InvalidExifPayload, "exif_tiff_header_offset %d does not match TIFF header at %d", declaredOffset, actualOffset)
	}
	return nil
}

// findTiffHeaderOffset scans r four bytes at a time, starting at r's current
// position, for a TIFF byte-order marker, returning its offset relative to
// that starting position.
func findTiffHeaderOffset(r *bitstream.Reader) (uint32, error) {
	var offset uint32
	for r.Len() > 0 {
		v, err := r.U32()
		if err != nil {
			return 0, averr.Wrap(averr.InvalidExifPayload, err, "scanning for TIFF header")
		}
		if v == tiffHeaderBE || v == tiffHeaderLE {
			return offset, nil
		}
		offset += 4
	}
	return 0, averr.New(averr.InvalidExifPayload)
}
