package avif

import "github.com/vegidio/goavif/internal/averr"

// Kind tags the failure mode of an Error, mirroring libavif's avifResult
// taxonomy closely enough that a caller migrating from it recognizes the
// names.
type Kind = averr.Kind

// Error kinds returned by this package. See averr.Kind for the canonical
// list; these are re-exported so callers never need to import the internal
// package directly.
const (
	KindBmffParseFailed          = averr.BmffParseFailed
	KindInvalidImageGrid         = averr.InvalidImageGrid
	KindInvalidExifPayload       = averr.InvalidExifPayload
	KindTruncatedData            = averr.TruncatedData
	KindIoError                  = averr.IoError
	KindIoNotSet                 = averr.IoNotSet
	KindWaitingOnIo              = averr.WaitingOnIo
	KindNoCodecAvailable         = averr.NoCodecAvailable
	KindDecodeColorFailed        = averr.DecodeColorFailed
	KindDecodeAlphaFailed        = averr.DecodeAlphaFailed
	KindDecodeGainMapFailed      = averr.DecodeGainMapFailed
	KindColorAlphaSizeMismatch   = averr.ColorAlphaSizeMismatch
	KindIspeSizeMismatch         = averr.IspeSizeMismatch
	KindIncompatibleImage        = averr.IncompatibleImage
	KindReformatFailed           = averr.ReformatFailed
	KindNotImplemented           = averr.NotImplemented
	KindInvalidArgument          = averr.InvalidArgument
	KindOutOfMemory              = averr.OutOfMemory
	KindUnsupportedDepth         = averr.UnsupportedDepth
	KindNoImagesRemaining        = averr.NoImagesRemaining
	KindMissingImageItem         = averr.MissingImageItem
	KindInvalidToneMappedImage   = averr.InvalidToneMappedImage
	KindUnknownError             = averr.UnknownError
)

// Error is the tagged error type every fallible operation in this package
// returns. Use errors.As to recover it, or Is to test its Kind.
type Error = averr.Error

// Is reports whether err (or any error it wraps) carries the given Kind.
func Is(err error, kind Kind) bool { return averr.Is(err, kind) }
