package dxt1

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/bcn"
)

// WriteOptions configures the DDS/EDDS writers. A nil *WriteOptions means
// DefaultWriteOptions.
type WriteOptions struct {
	// Encode configures the BC1 encoder; nil means DefaultEncodeOptions.
	Encode *EncodeOptions
	// MaxMipMaps limits the chain length; 0 means the full chain.
	MaxMipMaps int
	// Compress stores EDDS mip bodies as LZ4 chunk streams when that pays off.
	Compress bool
}

// DefaultWriteOptions returns the options used for a nil *WriteOptions.
func DefaultWriteOptions() *WriteOptions {
	return &WriteOptions{Encode: DefaultEncodeOptions(), Compress: true}
}

// EncodeMipmaps encodes img and its mip chain, largest level first.
func EncodeMipmaps(img image.Image, opts *WriteOptions) ([][]byte, Stats, error) {
	if img == nil {
		return nil, Stats{}, ErrNilImage
	}
	if opts == nil {
		opts = DefaultWriteOptions()
	}

	b := img.Bounds()
	count, err := mipLevelCount(b.Dx(), b.Dy(), opts.MaxMipMaps)
	if err != nil {
		return nil, Stats{}, err
	}

	levels := []image.Image{img}
	if count > 1 {
		for _, mip := range bcn.GenerateMipmaps(img, false)[1:] {
			if len(levels) == count {
				break
			}
			levels = append(levels, mip)
		}
	}

	var stats Stats
	payloads := make([][]byte, len(levels))
	for i, level := range levels {
		data, s, err := EncodeImage(level, opts.Encode)
		if err != nil {
			return nil, Stats{}, fmt.Errorf("%w: mipmap %d: %w", ErrEncodeMipmap, i, err)
		}
		payloads[i] = data
		stats.Add(s)
	}
	return payloads, stats, nil
}

// WriteDDS encodes img with its mip chain and writes a DXT1 DDS file.
func WriteDDS(w io.Writer, img image.Image, opts *WriteOptions) (Stats, error) {
	mips, stats, err := EncodeMipmaps(img, opts)
	if err != nil {
		return Stats{}, err
	}
	b := img.Bounds()
	return stats, WriteDDSFromBlocks(w, b.Dx(), b.Dy(), mips)
}

// WriteEDDS encodes img with its mip chain and writes an EDDS file.
func WriteEDDS(w io.Writer, img image.Image, opts *WriteOptions) (Stats, error) {
	if opts == nil {
		opts = DefaultWriteOptions()
	}
	mips, stats, err := EncodeMipmaps(img, opts)
	if err != nil {
		return Stats{}, err
	}
	b := img.Bounds()
	return stats, WriteEDDSFromBlocks(w, b.Dx(), b.Dy(), mips, opts.Compress)
}

// WriteFile writes img to path as DDS or EDDS, chosen by the file extension.
func WriteFile(path string, img image.Image, opts *WriteOptions) (Stats, error) {
	write := WriteDDS
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dds":
	case ".edds":
		write = WriteEDDS
	default:
		return Stats{}, fmt.Errorf("%w: %q", ErrUnknownExtension, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}
	defer func() { _ = f.Close() }()

	bw := bufio.NewWriter(f)
	stats, err := write(bw, img, opts)
	if err != nil {
		return Stats{}, err
	}
	if err := bw.Flush(); err != nil {
		return Stats{}, fmt.Errorf("%w: %v", ErrWriteBlockData, err)
	}
	return stats, f.Close()
}

// checkMipmaps validates pre-encoded payloads, largest level first.
func checkMipmaps(width, height int, mipmaps [][]byte) error {
	if len(mipmaps) == 0 {
		return ErrEmptyMipmaps
	}
	for i, mip := range mipmaps {
		want := EncodedSize(mipDimension(width, i), mipDimension(height, i))
		if len(mip) != want {
			return fmt.Errorf("%w: mipmap %d: expected %d, got %d", ErrMipmapSizeMismatch, i, want, len(mip))
		}
	}
	return nil
}

func writeHeader(w io.Writer, width, height, mipCount int, enfusion bool) error {
	header, err := makeDDSHeader(width, height, mipCount, enfusion)
	if err != nil {
		return err
	}
	if err := bcn.WriteDDSMagic(w); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteHeader, err)
	}
	if err := bcn.WriteDDSHeader(w, header); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteHeader, err)
	}
	return nil
}

// WriteDDSFromBlocks writes a DXT1 DDS file from pre-encoded payloads ordered
// from largest to smallest.
func WriteDDSFromBlocks(w io.Writer, width, height int, mipmaps [][]byte) error {
	if err := checkMipmaps(width, height, mipmaps); err != nil {
		return err
	}
	if err := writeHeader(w, width, height, len(mipmaps), false); err != nil {
		return err
	}
	for i, mip := range mipmaps {
		if _, err := w.Write(mip); err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrWriteBlockData, i, err)
		}
	}
	return nil
}

// WriteEDDSFromBlocks writes an EDDS file from pre-encoded payloads ordered
// from largest to smallest. EDDS stores the table and bodies smallest first.
func WriteEDDSFromBlocks(w io.Writer, width, height int, mipmaps [][]byte, compress bool) error {
	if err := checkMipmaps(width, height, mipmaps); err != nil {
		return err
	}

	bodies := make([]*mipBody, len(mipmaps))
	for i, mip := range mipmaps {
		body, err := storeMip(mip, compress)
		if err != nil {
			return fmt.Errorf("%w: mipmap %d: %w", ErrEncodeMipmap, i, err)
		}
		bodies[i] = body
	}

	if err := writeHeader(w, width, height, len(mipmaps), true); err != nil {
		return err
	}
	for i := len(bodies) - 1; i >= 0; i-- {
		if err := bodies[i].writeTableEntry(w); err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrWriteBlockTable, i, err)
		}
	}
	for i := len(bodies) - 1; i >= 0; i-- {
		if _, err := w.Write(bodies[i].data); err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrWriteBlockData, i, err)
		}
	}
	return nil
}
