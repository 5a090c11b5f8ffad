package dxt1

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

const (
	// BlockMagicCOPY marks an uncompressed EDDS mip body.
	BlockMagicCOPY = "COPY"
	// BlockMagicLZ4 marks an LZ4 chunk-stream EDDS mip body.
	BlockMagicLZ4 = "LZ4 "

	// ChunkSize is the Enfusion chunk size for LZ4 streams.
	ChunkSize = 64 * 1024

	// minCompressSize is the payload size below which bodies are stored as COPY.
	minCompressSize = 1024
	// maxCompressRatio is the compressed/raw ratio above which LZ4 is not worth it.
	maxCompressRatio = 0.85
	// lastChunkFlag marks the final chunk of a stream.
	lastChunkFlag = 0x80
)

// mipBody is the stored form of one mip level. LZ4 bodies start with the
// little-endian uncompressed size.
type mipBody struct {
	magic string
	data  []byte
	size  int32
}

// storeMip wraps a BC1 mip payload, compressing it when that pays off.
func storeMip(data []byte, compress bool) (*mipBody, error) {
	rawSize, err := i32FromInt(len(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes", ErrInputTooLarge, len(data))
	}
	plain := &mipBody{magic: BlockMagicCOPY, data: data, size: rawSize}
	if !compress || len(data) < minCompressSize {
		return plain, nil
	}

	stream, ok, err := compressChunks(data)
	if err != nil || !ok {
		return plain, err
	}
	size, err := i32FromInt(4 + len(stream))
	if err != nil {
		return nil, err
	}
	body := make([]byte, 4+len(stream))
	binary.LittleEndian.PutUint32(body, uint32(rawSize))
	copy(body[4:], stream)
	return &mipBody{magic: BlockMagicLZ4, data: body, size: size}, nil
}

// compressChunks encodes data as an Enfusion LZ4 chunk stream. ok is false when
// the stream would not be smaller than maxCompressRatio of the input.
func compressChunks(data []byte) ([]byte, bool, error) {
	var stream bytes.Buffer
	buf := make([]byte, lz4.CompressBlockBound(ChunkSize))

	for start := 0; start < len(data); start += ChunkSize {
		end := min(start+ChunkSize, len(data))
		chunk := data[start:end]

		n, err := lz4.CompressBlockHC(chunk, buf, 0, nil, nil)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrLZ4Compress, err)
		}
		if n == 0 || float64(n) > float64(len(chunk))*maxCompressRatio {
			return nil, false, nil
		}
		if n > 0x7fffff {
			return nil, false, fmt.Errorf("%w: %d", ErrChunkTooLarge, n)
		}

		flags := byte(0)
		if end == len(data) {
			flags = lastChunkFlag
		}
		stream.Write([]byte{byte(n), byte(n >> 8), byte(n >> 16), flags})
		stream.Write(buf[:n])
	}

	if float64(4+stream.Len()) > float64(len(data))*maxCompressRatio {
		return nil, false, nil
	}
	return stream.Bytes(), true, nil
}

// writeTableEntry writes the (magic, size) pair describing b.
func (b *mipBody) writeTableEntry(w io.Writer) error {
	if _, err := io.WriteString(w, b.magic); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, b.size)
}

// loadMip returns the raw payload of a stored mip body.
func loadMip(b *mipBody, expected int) ([]byte, error) {
	switch b.magic {
	case BlockMagicCOPY:
		if len(b.data) != expected {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrCopySizeMismatch, expected, len(b.data))
		}
		return b.data, nil
	case BlockMagicLZ4:
		if len(b.data) < 4 {
			return nil, fmt.Errorf("%w: missing size prefix", ErrChunkStreamTruncated)
		}
		target := int(binary.LittleEndian.Uint32(b.data[:4]))
		if target != expected {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrDecodedSizeMismatch, expected, target)
		}
		return decompressChunks(b.data[4:], target)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockMagic, b.magic)
	}
}

// decompressChunks inflates an Enfusion LZ4 chunk stream. Each chunk may refer
// back into the previous 64KB of output.
func decompressChunks(data []byte, targetSize int) ([]byte, error) {
	target := make([]byte, targetSize)
	out := 0
	r := bytes.NewReader(data)

	for {
		var hdr [4]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("%w: chunk header: %v", ErrChunkStreamTruncated, err)
		}
		cSize := int(hdr[0]) | int(hdr[1])<<8 | int(hdr[2])<<16
		flags := hdr[3]
		if flags&^lastChunkFlag != 0 {
			return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownLZ4Flags, flags)
		}
		if cSize <= 0 || cSize > r.Len() {
			return nil, fmt.Errorf("%w: %d (remaining %d)", ErrInvalidChunkSize, cSize, r.Len())
		}
		compressed := make([]byte, cSize)
		if _, err := io.ReadFull(r, compressed); err != nil {
			return nil, fmt.Errorf("%w: chunk body: %v", ErrChunkStreamTruncated, err)
		}

		if out >= targetSize {
			return nil, ErrDecodeOverrun
		}
		want := min(ChunkSize, targetSize-out)
		dict := target[max(0, out-ChunkSize):out]

		n, err := lz4.UncompressBlockWithDict(compressed, target[out:out+want], dict)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Decode, err)
		}
		out += n

		if flags&lastChunkFlag != 0 {
			break
		}
	}

	if out != targetSize {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDecodedSizeMismatch, targetSize, out)
	}
	return target, nil
}

type tableEntry struct {
	magic string
	size  int32
}

// readBlockTable reads count (magic, size) entries.
func readBlockTable(r io.Reader, count int) ([]tableEntry, error) {
	entries := make([]tableEntry, 0, count)
	for i := range count {
		var magic [4]byte
		if _, err := io.ReadFull(r, magic[:]); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrBlockTableRead, i, err)
		}
		var size int32
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrBlockTableRead, i, err)
		}

		m := string(magic[:])
		if m != BlockMagicCOPY && m != BlockMagicLZ4 {
			return nil, fmt.Errorf("%w: entry %d: %q", ErrBlockTableUnknownMagic, i, m)
		}
		if size < 0 {
			return nil, fmt.Errorf("%w: entry %d: %d", ErrBlockTableInvalidSize, i, size)
		}
		entries = append(entries, tableEntry{magic: m, size: size})
	}
	return entries, nil
}

// readMipBody reads the body described by e.
func readMipBody(r io.Reader, e tableEntry) (*mipBody, error) {
	data := make([]byte, e.size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBlockBodyRead, e.magic, err)
	}
	return &mipBody{magic: e.magic, data: data, size: e.size}, nil
}
