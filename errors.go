package dxt1

import "errors"

var (
	// ErrPixelCount indicates a block was not given exactly 16 pixels.
	ErrPixelCount = errors.New("block must have 16 pixels")
	// ErrAlphaThreshold indicates an alpha threshold outside 0..255.
	ErrAlphaThreshold = errors.New("alpha threshold out of range")
	// ErrBadQuality indicates an unknown quality level.
	ErrBadQuality = errors.New("unknown quality level")
	// ErrNilImage indicates a nil source image.
	ErrNilImage = errors.New("nil image")
	// ErrEmptyImage indicates a source image without pixels.
	ErrEmptyImage = errors.New("empty image")
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrUnsupportedFormat indicates a DDS payload that is not BC1.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrUnknownExtension indicates an output path that is neither .dds nor .edds.
	ErrUnknownExtension = errors.New("unknown output extension")
	// ErrEmptyMipmaps indicates missing mipmap data.
	ErrEmptyMipmaps = errors.New("empty mipmaps")
	// ErrMipmapSizeMismatch indicates mipmap payload size mismatch.
	ErrMipmapSizeMismatch = errors.New("mipmap size mismatch")
	// ErrEncodeMipmap indicates BC1 encoding of a mip level failed.
	ErrEncodeMipmap = errors.New("encode mipmap failed")
	// ErrInputTooLarge indicates input data is too large to store.
	ErrInputTooLarge = errors.New("input data too large")
	// ErrChunkTooLarge indicates a compressed chunk exceeds allowed size.
	ErrChunkTooLarge = errors.New("compressed chunk too large")
	// ErrLZ4Compress indicates LZ4 compression failed.
	ErrLZ4Compress = errors.New("LZ4 compression failed")
	// ErrLZ4Decode indicates LZ4 decode failed.
	ErrLZ4Decode = errors.New("LZ4 decode failed")
	// ErrCopySizeMismatch indicates COPY block data size mismatch.
	ErrCopySizeMismatch = errors.New("COPY block size mismatch")
	// ErrUnknownBlockMagic indicates an unknown block magic.
	ErrUnknownBlockMagic = errors.New("unknown block magic")
	// ErrChunkStreamTruncated indicates the LZ4 chunk stream is truncated.
	ErrChunkStreamTruncated = errors.New("LZ4 chunk-stream truncated")
	// ErrUnknownLZ4Flags indicates unknown LZ4 chunk flags.
	ErrUnknownLZ4Flags = errors.New("unknown LZ4 flags")
	// ErrInvalidChunkSize indicates invalid LZ4 chunk size.
	ErrInvalidChunkSize = errors.New("invalid compressed chunk size")
	// ErrDecodeOverrun indicates decoded data overruns the target buffer.
	ErrDecodeOverrun = errors.New("decoded LZ4 overruns target buffer")
	// ErrDecodedSizeMismatch indicates decoded size mismatch.
	ErrDecodedSizeMismatch = errors.New("LZ4 decoded size mismatch")
	// ErrBlockTableRead indicates the EDDS block table could not be read.
	ErrBlockTableRead = errors.New("reading block table failed")
	// ErrBlockTableUnknownMagic indicates unknown block magic in table.
	ErrBlockTableUnknownMagic = errors.New("unknown block magic in table")
	// ErrBlockTableInvalidSize indicates invalid size in block table.
	ErrBlockTableInvalidSize = errors.New("invalid block size in table")
	// ErrBlockBodyRead indicates block body read failed.
	ErrBlockBodyRead = errors.New("reading block body failed")
	// ErrDDSHeaderRead indicates DDS header read failed.
	ErrDDSHeaderRead = errors.New("reading DDS header failed")
	// ErrDDSDX10Read indicates DDS DX10 header read failed.
	ErrDDSDX10Read = errors.New("reading DDS DX10 header failed")
	// ErrPayloadRead indicates the DDS payload could not be read.
	ErrPayloadRead = errors.New("reading payload failed")
	// ErrOpenFile indicates file open failed.
	ErrOpenFile = errors.New("open file failed")
	// ErrCreateFile indicates file creation failed.
	ErrCreateFile = errors.New("create file failed")
	// ErrDecodeImage indicates BC1 decode of the payload failed.
	ErrDecodeImage = errors.New("decode image failed")
	// ErrWriteHeader indicates writing the DDS magic or header failed.
	ErrWriteHeader = errors.New("writing DDS header failed")
	// ErrWriteBlockTable indicates writing the EDDS block table failed.
	ErrWriteBlockTable = errors.New("writing block table failed")
	// ErrWriteBlockData indicates writing block data failed.
	ErrWriteBlockData = errors.New("writing block data failed")
)
