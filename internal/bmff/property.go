package bmff

import (
	"github.com/vegidio/goavif/internal/averr"
	"github.com/vegidio/goavif/internal/bitstream"
)

// PropertyKind tags the variant held by an ItemProperty.
type PropertyKind int

const (
	PropUnknown PropertyKind = iota
	PropCodecConfiguration
	PropImageSpatialExtents
	PropPixelInformation
	PropAuxiliaryType
	PropLayerSelector
	PropOperatingPointSelector
	PropAV1LayeredImageIndexing
	PropContentLightLevelInformation
)

// CodecConfiguration mirrors the "av1C" box: the AV1 sequence-header bits
// needed to interpret a coded image's samples without decoding them.
type CodecConfiguration struct {
	SeqProfile                       uint8
	SeqLevelIdx0                      uint8
	SeqTier0                         uint8
	HighBitdepth                     bool
	TwelveBit                        bool
	Monochrome                       bool
	ChromaSubsamplingX               bool
	ChromaSubsamplingY               bool
	ChromaSamplePosition             uint8
	InitialPresentationDelayPresent  bool
	InitialPresentationDelayMinusOne uint8
}

// Depth returns the coded bit depth implied by the configuration.
func (c CodecConfiguration) Depth() int {
	if !c.HighBitdepth {
		return 8
	}
	if c.TwelveBit {
		return 12
	}
	return 10
}

// Equal reports byte-for-byte equivalence, used by the grid-coherence check
// in spec.md §3 ("the CodecConfiguration of every tile equals that of the
// grid itself").
func (c CodecConfiguration) Equal(o CodecConfiguration) bool { return c == o }

// ImageSpatialExtents mirrors the "ispe" box.
type ImageSpatialExtents struct {
	Width, Height uint32
}

// PixelInformation mirrors the "pixi" box: per-plane bit depth.
type PixelInformation struct {
	PlaneDepths []uint8
}

// AuxiliaryType mirrors the "auxC" box.
type AuxiliaryType struct {
	URN string
}

const (
	AuxTypeAlphaMPEG = "urn:mpeg:mpegB:cicp:systems:auxiliary:alpha"
	AuxTypeAlphaHEVC = "urn:mpeg:hevc:2015:auxid:1"
)

// IsAlpha reports whether the auxiliary type designates an alpha plane.
func (a AuxiliaryType) IsAlpha() bool {
	return a.URN == AuxTypeAlphaMPEG || a.URN == AuxTypeAlphaHEVC
}

// LayerSelector mirrors the "lsel" box.
type LayerSelector struct {
	LayerID uint16
}

// OperatingPointSelector mirrors the "a1op" box.
type OperatingPointSelector struct {
	OpIndex uint8
}

// AV1LayeredImageIndexing mirrors the "a1lx" box.
type AV1LayeredImageIndexing struct {
	LayerSize [3]uint32
}

// ContentLightLevelInformation mirrors the "clli" box.
type ContentLightLevelInformation struct {
	MaxCLL, MaxPALL uint16
}

// ItemProperty is a tagged, value-semantic variant cloned into every item
// it is associated with (spec.md §9 "Properties attached to items").
type ItemProperty struct {
	Kind PropertyKind

	CodecConfiguration            CodecConfiguration
	ImageSpatialExtents           ImageSpatialExtents
	PixelInformation               PixelInformation
	AuxiliaryType                  AuxiliaryType
	LayerSelector                  LayerSelector
	OperatingPointSelector         OperatingPointSelector
	AV1LayeredImageIndexing        AV1LayeredImageIndexing
	ContentLightLevelInformation   ContentLightLevelInformation

	// UnknownType carries the raw 4-byte box type for diagnostics when
	// Kind == PropUnknown.
	UnknownType string
}

// parseProperty decodes a single "ipco" child box into an ItemProperty.
// Box types this core does not act on (irot, imir, colr, pasp, ...) are
// represented as PropUnknown so essentiality rules in item.go still apply.
func parseProperty(b box) (ItemProperty, error) {
	r := bitstream.NewReader(b.payload)
	switch b.boxType {
	case "av1C":
		return parseAV1Config(r)
	case "ispe":
		return parseISPE(r)
	case "pixi":
		return parsePIXI(r)
	case "auxC":
		return parseAuxC(r)
	case "lsel":
		return parseLSEL(r)
	case "a1op":
		return parseA1OP(r)
	case "a1lx":
		return parseA1LX(r)
	case "clli":
		return parseCLLI(r)
	default:
		return ItemProperty{Kind: PropUnknown, UnknownType: b.boxType}, nil
	}
}

func parseAV1Config(r *bitstream.Reader) (ItemProperty, error) {
	marker, err := r.U8()
	if err != nil {
		return ItemProperty{}, err
	}
	if marker>>7&1 != 1 {
		return ItemProperty{}, averr.New(averr.BmffParseFailed)
	}
	b2, err := r.U8()
	if err != nil {
		return ItemProperty{}, err
	}
	b3, err := r.U8()
	if err != nil {
		return ItemProperty{}, err
	}
	b4, err := r.U8()
	if err != nil {
		return ItemProperty{}, err
	}

	cfg := CodecConfiguration{
		SeqProfile:           (b2 >> 5) & 0x7,
		SeqLevelIdx0:         b2 & 0x1F,
		SeqTier0:             (b3 >> 7) & 1,
		HighBitdepth:         (b3>>6)&1 != 0,
		TwelveBit:            (b3>>5)&1 != 0,
		Monochrome:           (b3>>4)&1 != 0,
		ChromaSubsamplingX:   (b3>>3)&1 != 0,
		ChromaSubsamplingY:   (b3>>2)&1 != 0,
		ChromaSamplePosition: b3 & 0x3,
	}
	cfg.InitialPresentationDelayPresent = (b4>>4)&1 != 0
	if cfg.InitialPresentationDelayPresent {
		cfg.InitialPresentationDelayMinusOne = b4 & 0xF
	}
	return ItemProperty{Kind: PropCodecConfiguration, CodecConfiguration: cfg}, nil
}

func parseISPE(r *bitstream.Reader) (ItemProperty, error) {
	if _, _, err := fullBoxHeader(r); err != nil {
		return ItemProperty{}, err
	}
	w, err := r.U32()
	if err != nil {
		return ItemProperty{}, err
	}
	h, err := r.U32()
	if err != nil {
		return ItemProperty{}, err
	}
	return ItemProperty{Kind: PropImageSpatialExtents, ImageSpatialExtents: ImageSpatialExtents{Width: w, Height: h}}, nil
}

func parsePIXI(r *bitstream.Reader) (ItemProperty, error) {
	if _, _, err := fullBoxHeader(r); err != nil {
		return ItemProperty{}, err
	}
	count, err := r.U8()
	if err != nil {
		return ItemProperty{}, err
	}
	depths := make([]uint8, count)
	for i := range depths {
		d, err := r.U8()
		if err != nil {
			return ItemProperty{}, err
		}
		depths[i] = d
	}
	return ItemProperty{Kind: PropPixelInformation, PixelInformation: PixelInformation{PlaneDepths: depths}}, nil
}

func parseAuxC(r *bitstream.Reader) (ItemProperty, error) {
	if _, _, err := fullBoxHeader(r); err != nil {
		return ItemProperty{}, err
	}
	urn, err := r.CString()
	if err != nil {
		return ItemProperty{}, err
	}
	return ItemProperty{Kind: PropAuxiliaryType, AuxiliaryType: AuxiliaryType{URN: urn}}, nil
}

func parseLSEL(r *bitstream.Reader) (ItemProperty, error) {
	id, err := r.U16()
	if err != nil {
		return ItemProperty{}, err
	}
	return ItemProperty{Kind: PropLayerSelector, LayerSelector: LayerSelector{LayerID: id}}, nil
}

func parseA1OP(r *bitstream.Reader) (ItemProperty, error) {
	idx, err := r.U8()
	if err != nil {
		return ItemProperty{}, err
	}
	return ItemProperty{Kind: PropOperatingPointSelector, OperatingPointSelector: OperatingPointSelector{OpIndex: idx}}, nil
}

func parseA1LX(r *bitstream.Reader) (ItemProperty, error) {
	if _, err := r.U8(); err != nil { // reserved + large_size flag byte
		return ItemProperty{}, err
	}
	var sizes [3]uint32
	for i := range sizes {
		v, err := r.U32()
		if err != nil {
			return ItemProperty{}, err
		}
		sizes[i] = v
	}
	return ItemProperty{Kind: PropAV1LayeredImageIndexing, AV1LayeredImageIndexing: AV1LayeredImageIndexing{LayerSize: sizes}}, nil
}

func parseCLLI(r *bitstream.Reader) (ItemProperty, error) {
	maxCLL, err := r.U16()
	if err != nil {
		return ItemProperty{}, err
	}
	maxPALL, err := r.U16()
	if err != nil {
		return ItemProperty{}, err
	}
	return ItemProperty{Kind: PropContentLightLevelInformation, ContentLightLevelInformation: ContentLightLevelInformation{MaxCLL: maxCLL, MaxPALL: maxPALL}}, nil
}
