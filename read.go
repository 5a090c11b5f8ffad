package dxt1

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/woozymasta/bcn"
)

// ReadOptions configures DDS/EDDS reading.
type ReadOptions struct {
	// DecodeOptions are passed to the BCn decoder (e.g. Workers).
	DecodeOptions *bcn.DecodeOptions
}

// ReadConfig reads the image size of a DXT1 DDS or EDDS file without decoding it.
func ReadConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	header, _, err := readHeaders(f)
	if err != nil {
		return image.Config{}, err
	}

	return image.Config{
		Width:      int(header.Width),
		Height:     int(header.Height),
		ColorModel: color.NRGBAModel,
	}, nil
}

// Read reads and decodes the largest level of a DXT1 DDS or EDDS file.
func Read(path string) (image.Image, error) {
	return ReadWithOptions(path, nil)
}

// ReadWithOptions is Read with decoder options. Nil opts uses bcn defaults.
func ReadWithOptions(path string, opts *ReadOptions) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	data, width, height, err := ReadPayload(f)
	if err != nil {
		return nil, err
	}

	var decOpts *bcn.DecodeOptions
	if opts != nil {
		decOpts = opts.DecodeOptions
	}
	var img image.Image
	img, err = bcn.DecodeImageWithOptions(data, width, height, bcn.FormatDXT1, decOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeImage, err)
	}
	return img, nil
}

// ReadPayload returns the raw BC1 payload of the largest level and its size.
// EDDS bodies are decompressed; other formats fail with ErrUnsupportedFormat.
func ReadPayload(r io.ReadSeeker) ([]byte, int, int, error) {
	header, dx10, err := readHeaders(r)
	if err != nil {
		return nil, 0, 0, err
	}
	if !isBC1(header, dx10) {
		if dx10 != nil {
			return nil, 0, 0, fmt.Errorf("%w: DXGI format %d", ErrUnsupportedFormat, dx10.DXGIFormat)
		}
		return nil, 0, 0, fmt.Errorf("%w: FourCC %q", ErrUnsupportedFormat, fourCCString(header.PixelFormat.FourCC))
	}

	width, height := int(header.Width), int(header.Height)
	if width <= 0 || height <= 0 {
		return nil, 0, 0, fmt.Errorf("%w: %dx%d", ErrEmptyImage, width, height)
	}
	expected := EncodedSize(width, height)

	if !isEnfusion(header) {
		data := make([]byte, expected)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, 0, 0, fmt.Errorf("%w: %v", ErrPayloadRead, err)
		}
		return data, width, height, nil
	}

	mipCount := 1
	if (header.Caps&bcn.DDSCapsMipmap) != 0 && header.MipMapCount > 0 {
		mipCount = int(header.MipMapCount)
	}

	data, err := readLargestMip(r, mipCount, expected)
	if err != nil {
		legacy, legacyErr := readLegacyPayload(r, dx10 != nil, expected)
		if legacyErr != nil {
			return nil, 0, 0, err
		}
		data = legacy
	}
	return data, width, height, nil
}

// readLargestMip walks the EDDS block table; the last body is level 0.
func readLargestMip(r io.ReadSeeker, mipCount, expected int) ([]byte, error) {
	table, err := readBlockTable(r, mipCount)
	if err != nil {
		return nil, err
	}

	last := len(table) - 1
	for _, e := range table[:last] {
		if _, err := r.Seek(int64(e.size), io.SeekCurrent); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBlockBodyRead, err)
		}
	}

	body, err := readMipBody(r, table[last])
	if err != nil {
		return nil, err
	}
	return loadMip(body, expected)
}

// readLegacyPayload handles older EDDS files that store one blob after the
// header instead of a block table: an LZ4 stream with size prefix, or raw data.
func readLegacyPayload(r io.ReadSeeker, hasDX10 bool, expected int) ([]byte, error) {
	start := int64(4 + bcn.DDSHeaderSize)
	if hasDX10 {
		start += 20
	}
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadRead, err)
	}
	rest, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadRead, err)
	}

	if data, err := loadMip(&mipBody{magic: BlockMagicLZ4, data: rest}, expected); err == nil {
		return data, nil
	}
	return loadMip(&mipBody{magic: BlockMagicCOPY, data: rest}, expected)
}

// readHeaders reads the DDS magic, header and optional DX10 extension.
func readHeaders(r io.Reader) (*bcn.DDSHeader, *bcn.DDSHeaderDX10, error) {
	header, err := bcn.ReadDDSHeader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDDSHeaderRead, err)
	}

	dx10, err := bcn.ReadDDSHeaderDX10(r, header)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDDSDX10Read, err)
	}

	return header, dx10, nil
}
