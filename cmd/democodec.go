package main

import "github.com/vegidio/goavif/codec"

// demoCodec is a placeholder codec.Decoder used only by the "decode"
// subcommand against synthetic fixtures that store a raw YUV444 8-bit
// raster in place of a real AV1 OBU stream. It exists so the CLI has an
// end-to-end path to exercise without bundling an actual AV1 decoder,
// which is explicitly outside this module's scope.
type demoCodec struct {
	width, height int
}

func (d demoCodec) Initialize(int, bool) error { return nil }

func (d demoCodec) GetNextImage(payload []byte, spatialID int, out *codec.Image, category codec.Category) error {
	planeSize := d.width * d.height
	if len(payload) < planeSize*3 {
		return errShortPayload
	}
	out.Width, out.Height, out.Depth = d.width, d.height, 8
	out.Planes[codec.PlaneY] = payload[0:planeSize]
	out.Planes[codec.PlaneU] = payload[planeSize : 2*planeSize]
	out.Planes[codec.PlaneV] = payload[2*planeSize : 3*planeSize]
	out.Strides[codec.PlaneY] = d.width
	out.Strides[codec.PlaneU] = d.width
	out.Strides[codec.PlaneV] = d.width
	return nil
}

var errShortPayload = &demoCodecError{"payload too short for declared dimensions"}

type demoCodecError struct{ msg string }

func (e *demoCodecError) Error() string { return e.msg }
