// Package averr defines the tagged error kinds shared by the goavif core.
//
// Errors are uniform and flat: every failure carries one of the Kind
// constants below plus a short human-readable detail, never a deep
// hierarchy of wrapped sentinel types. This mirrors the "FormatError /
// UnsupportedError" string-tag pattern used by container decoders in the
// Go ecosystem, generalized to the larger kind vocabulary an AVIF decoder
// needs.
package averr

import "fmt"

// Kind identifies the category of a decode failure.
type Kind string

const (
	BmffParseFailed     Kind = "bmff_parse_failed"
	InvalidImageGrid     Kind = "invalid_image_grid"
	InvalidExifPayload    Kind = "invalid_exif_payload"
	TruncatedData        Kind = "truncated_data"
	IoError              Kind = "io_error"
	IoNotSet             Kind = "io_not_set"
	WaitingOnIo          Kind = "waiting_on_io"
	NoCodecAvailable     Kind = "no_codec_available"
	DecodeColorFailed    Kind = "decode_color_failed"
	DecodeAlphaFailed    Kind = "decode_alpha_failed"
	DecodeGainMapFailed  Kind = "decode_gain_map_failed"
	ColorAlphaSizeMismatch Kind = "color_alpha_size_mismatch"
	IspeSizeMismatch     Kind = "ispe_size_mismatch"
	IncompatibleImage    Kind = "incompatible_image"
	ReformatFailed       Kind = "reformat_failed"
	NotImplemented       Kind = "not_implemented"
	InvalidArgument      Kind = "invalid_argument"
	OutOfMemory          Kind = "out_of_memory"
	UnsupportedDepth     Kind = "unsupported_depth"
	NoImagesRemaining    Kind = "no_images_remaining"
	MissingImageItem     Kind = "missing_image_item"
	InvalidToneMappedImage Kind = "invalid_tone_mapped_image"
	UnknownError         Kind = "unknown_error"
)

// Error is the single error type surfaced by every package in the core.
type Error struct {
	Kind   Kind
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error with no detail.
func New(kind Kind) *Error { return &Error{Kind: kind} }

// Newf builds an *Error with a formatted detail string.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error that carries an underlying cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err, or any *Error in its wrapped chain, has the given
// kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if ok := asError(err, &e); !ok {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
