// Package avif decodes AVIF (AV1 Image File Format) containers without
// pulling in an AV1 bitstream decoder: it owns the ISO-BMFF item model
// (parsing the "meta" box, resolving item references, locating sample
// extents, reassembling image grids) and the YUV-to-RGB reformatting core,
// while delegating actual AV1 sample decoding to a caller-supplied
// codec.Decoder.
package avif
