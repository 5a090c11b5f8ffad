package dxt1

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/woozymasta/bcn"
)

// gradientImage builds a deterministic opaque test image.
func gradientImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x*7 + y*3) & 0xff),        //nolint:gosec // bounded by mask
				G: uint8((x*13 + y*5) & 0xff),       //nolint:gosec // bounded by mask
				B: uint8((x ^ y ^ (x >> 2)) & 0xff), //nolint:gosec // bounded by mask
				A: 255,
			})
		}
	}
	return img
}

func TestCompressRoundTrip(t *testing.T) {
	t.Parallel()

	data := make([]byte, 128*1024)
	for i := range data {
		data[i] = byte((i*31 + 7) & 0xff)
	}

	body, err := storeMip(data, true)
	if err != nil {
		t.Fatalf("storeMip: %v", err)
	}
	if body.magic != BlockMagicLZ4 {
		t.Fatalf("magic = %q, want %q", body.magic, BlockMagicLZ4)
	}
	if int(body.size) != len(body.data) {
		t.Fatalf("size = %d, data = %d", body.size, len(body.data))
	}

	out, err := loadMip(body, len(data))
	if err != nil {
		t.Fatalf("loadMip: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("round-trip mismatch")
	}
}

func TestStoreMipFallsBackToCopy(t *testing.T) {
	t.Parallel()

	noise := make([]byte, 64*1024)
	rand.New(rand.NewSource(1)).Read(noise)

	tests := []struct {
		name     string
		data     []byte
		compress bool
	}{
		{name: "disabled", data: make([]byte, 8192), compress: false},
		{name: "small", data: make([]byte, minCompressSize-8), compress: true},
		{name: "incompressible", data: noise, compress: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			body, err := storeMip(tc.data, tc.compress)
			if err != nil {
				t.Fatalf("storeMip: %v", err)
			}
			if body.magic != BlockMagicCOPY {
				t.Fatalf("magic = %q, want %q", body.magic, BlockMagicCOPY)
			}
			out, err := loadMip(body, len(tc.data))
			if err != nil {
				t.Fatalf("loadMip: %v", err)
			}
			if !bytes.Equal(out, tc.data) {
				t.Fatalf("payload mismatch")
			}
		})
	}
}

func TestLoadMipErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    *mipBody
		want    int
		wantErr error
	}{
		{name: "copy-size", body: &mipBody{magic: BlockMagicCOPY, data: make([]byte, 7)}, want: 8, wantErr: ErrCopySizeMismatch},
		{name: "lz4-no-prefix", body: &mipBody{magic: BlockMagicLZ4, data: []byte{1, 2}}, want: 8, wantErr: ErrChunkStreamTruncated},
		{name: "lz4-size", body: &mipBody{magic: BlockMagicLZ4, data: []byte{16, 0, 0, 0}}, want: 8, wantErr: ErrDecodedSizeMismatch},
		{name: "lz4-flags", body: &mipBody{magic: BlockMagicLZ4, data: []byte{8, 0, 0, 0, 1, 0, 0, 0x40, 0}}, want: 8, wantErr: ErrUnknownLZ4Flags},
		{name: "lz4-chunk-size", body: &mipBody{magic: BlockMagicLZ4, data: []byte{8, 0, 0, 0, 9, 0, 0, 0x80, 0}}, want: 8, wantErr: ErrInvalidChunkSize},
		{name: "magic", body: &mipBody{magic: "ZSTD"}, want: 8, wantErr: ErrUnknownBlockMagic},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := loadMip(tc.body, tc.want)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestWriteEDDSReadPayload(t *testing.T) {
	t.Parallel()

	img := gradientImage(64, 48)
	opts := DefaultWriteOptions()
	opts.Encode.Quality = QualityFast

	want, _, err := EncodeImage(img, opts.Encode)
	if err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}

	for _, compress := range []bool{false, true} {
		opts.Compress = compress

		var buf bytes.Buffer
		stats, err := WriteEDDS(&buf, img, opts)
		if err != nil {
			t.Fatalf("WriteEDDS(compress=%v): %v", compress, err)
		}
		if stats.Blocks == 0 {
			t.Fatalf("no blocks reported")
		}

		got, w, h, err := ReadPayload(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("ReadPayload(compress=%v): %v", compress, err)
		}
		if w != 64 || h != 48 {
			t.Fatalf("unexpected size: %dx%d", w, h)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("payload mismatch (compress=%v)", compress)
		}
	}
}

func TestWriteDDSReadPayload(t *testing.T) {
	t.Parallel()

	img := gradientImage(20, 12)
	opts := &WriteOptions{Encode: DefaultEncodeOptions(), MaxMipMaps: 2}

	var buf bytes.Buffer
	if _, err := WriteDDS(&buf, img, opts); err != nil {
		t.Fatalf("WriteDDS: %v", err)
	}

	mips, _, err := EncodeMipmaps(img, opts)
	if err != nil {
		t.Fatalf("EncodeMipmaps: %v", err)
	}
	if len(mips) != 2 {
		t.Fatalf("mip count = %d, want 2", len(mips))
	}
	wantLen := 4 + int(bcn.DDSHeaderSize) + len(mips[0]) + len(mips[1])
	if buf.Len() != wantLen {
		t.Fatalf("file size = %d, want %d", buf.Len(), wantLen)
	}

	got, _, _, err := ReadPayload(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadPayload: %v", err)
	}
	if !bytes.Equal(got, mips[0]) {
		t.Fatalf("payload mismatch")
	}
}

func TestWriteFileRead(t *testing.T) {
	t.Parallel()

	img := gradientImage(16, 8)
	opts := DefaultWriteOptions()
	opts.Encode.AllowAlphaBlocks = false

	for _, name := range []string{"test.edds", "test.DDS"} {
		path := filepath.Join(t.TempDir(), name)
		if _, err := WriteFile(path, img, opts); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}

		cfg, err := ReadConfig(path)
		if err != nil {
			t.Fatalf("ReadConfig(%s): %v", name, err)
		}
		if cfg.Width != 16 || cfg.Height != 8 {
			t.Fatalf("unexpected size: %dx%d", cfg.Width, cfg.Height)
		}

		got, err := Read(path)
		if err != nil {
			t.Fatalf("Read(%s): %v", name, err)
		}
		if got.Bounds().Dx() != 16 || got.Bounds().Dy() != 8 {
			t.Fatalf("unexpected bounds: %v", got.Bounds())
		}
	}
}

func TestWriteFileUnknownExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.png")
	_, err := WriteFile(path, gradientImage(4, 4), nil)
	if !errors.Is(err, ErrUnknownExtension) {
		t.Fatalf("expected ErrUnknownExtension, got %v", err)
	}
}

func TestWriteFromBlocksValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		width   int
		height  int
		mips    [][]byte
		wantErr error
	}{
		{name: "empty-mips", width: 4, height: 4, mips: nil, wantErr: ErrEmptyMipmaps},
		{name: "mipmap-size-mismatch", width: 4, height: 4, mips: [][]byte{make([]byte, 7)}, wantErr: ErrMipmapSizeMismatch},
		{name: "second-level-mismatch", width: 8, height: 8, mips: [][]byte{make([]byte, 32), make([]byte, 16)}, wantErr: ErrMipmapSizeMismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			err := WriteEDDSFromBlocks(&buf, tc.width, tc.height, tc.mips, true)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("EDDS: expected error %v, got %v", tc.wantErr, err)
			}
			err = WriteDDSFromBlocks(&buf, tc.width, tc.height, tc.mips)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("DDS: expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestIsBC1Table(t *testing.T) {
	t.Parallel()

	fourCC := func(a, b, c, d byte) *bcn.DDSHeader {
		return &bcn.DDSHeader{
			PixelFormat: bcn.DDSPixelFormat{
				Flags:  bcn.DDSPFFourCC,
				FourCC: makeFourCC(a, b, c, d),
			},
		}
	}

	tests := []struct {
		name   string
		header *bcn.DDSHeader
		dx10   *bcn.DDSHeaderDX10
		want   bool
	}{
		{name: "fourcc-dxt1", header: fourCC('D', 'X', 'T', '1'), want: true},
		{name: "fourcc-dxt5", header: fourCC('D', 'X', 'T', '5'), want: false},
		{name: "dxgi-bc1", header: fourCC('D', 'X', '1', '0'), dx10: &bcn.DDSHeaderDX10{DXGIFormat: 71}, want: true},
		{name: "dxgi-bc1-srgb", header: fourCC('D', 'X', '1', '0'), dx10: &bcn.DDSHeaderDX10{DXGIFormat: 72}, want: true},
		{name: "dxgi-bc3", header: fourCC('D', 'X', '1', '0'), dx10: &bcn.DDSHeaderDX10{DXGIFormat: 77}, want: false},
		{name: "rgb", header: &bcn.DDSHeader{PixelFormat: bcn.DDSPixelFormat{Flags: bcn.DDSPFRGB}}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := isBC1(tc.header, tc.dx10); got != tc.want {
				t.Fatalf("isBC1() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestReadPayloadUnsupportedFormat(t *testing.T) {
	t.Parallel()

	header, err := makeDDSHeader(4, 4, 1, false)
	if err != nil {
		t.Fatalf("makeDDSHeader: %v", err)
	}
	header.PixelFormat.FourCC = makeFourCC('D', 'X', 'T', '5')

	var buf bytes.Buffer
	if err := bcn.WriteDDSMagic(&buf); err != nil {
		t.Fatalf("WriteDDSMagic: %v", err)
	}
	if err := bcn.WriteDDSHeader(&buf, header); err != nil {
		t.Fatalf("WriteDDSHeader: %v", err)
	}
	buf.Write(make([]byte, 16))

	_, _, _, err = ReadPayload(bytes.NewReader(buf.Bytes()))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestReadPayloadLegacySingleBlob(t *testing.T) {
	t.Parallel()

	payload := make([]byte, EncodedSize(8, 8))
	for i := 0; i < len(payload); i += BlockSize {
		binary.LittleEndian.PutUint16(payload[i:], 0xf800)
		binary.LittleEndian.PutUint16(payload[i+2:], 0x001f)
		binary.LittleEndian.PutUint32(payload[i+4:], 0x55aa55aa)
	}

	header, err := makeDDSHeader(8, 8, 1, true)
	if err != nil {
		t.Fatalf("makeDDSHeader: %v", err)
	}
	var buf bytes.Buffer
	_ = bcn.WriteDDSMagic(&buf)
	_ = bcn.WriteDDSHeader(&buf, header)
	buf.Write(payload)

	got, w, h, err := ReadPayload(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadPayload: %v", err)
	}
	if w != 8 || h != 8 || !bytes.Equal(got, payload) {
		t.Fatalf("legacy payload mismatch (%dx%d)", w, h)
	}
}

func TestReadBlockTableErrors(t *testing.T) {
	t.Parallel()

	t.Run("unknown-magic", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		_, _ = buf.WriteString("ABCD")
		_ = binary.Write(&buf, binary.LittleEndian, int32(8))

		_, err := readBlockTable(bytes.NewReader(buf.Bytes()), 1)
		if !errors.Is(err, ErrBlockTableUnknownMagic) {
			t.Fatalf("expected ErrBlockTableUnknownMagic, got %v", err)
		}
	})

	t.Run("negative-size", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		_, _ = buf.WriteString(BlockMagicCOPY)
		_ = binary.Write(&buf, binary.LittleEndian, int32(-1))

		_, err := readBlockTable(bytes.NewReader(buf.Bytes()), 1)
		if !errors.Is(err, ErrBlockTableInvalidSize) {
			t.Fatalf("expected ErrBlockTableInvalidSize, got %v", err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		t.Parallel()

		_, err := readBlockTable(bytes.NewReader([]byte("LZ4 ")), 1)
		if !errors.Is(err, ErrBlockTableRead) {
			t.Fatalf("expected ErrBlockTableRead, got %v", err)
		}
	})
}

func TestMipLevelCountTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		w, h  int
		limit int
		want  int
	}{
		{name: "1x1", w: 1, h: 1, want: 1},
		{name: "4x4", w: 4, h: 4, want: 3},
		{name: "8x2", w: 8, h: 2, want: 4},
		{name: "capped", w: 4096, h: 4096, want: maxMipLevels},
		{name: "limit", w: 256, h: 256, limit: 3, want: 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := mipLevelCount(tc.w, tc.h, tc.limit)
			if err != nil {
				t.Fatalf("mipLevelCount: %v", err)
			}
			if got != tc.want {
				t.Fatalf("mipLevelCount(%d,%d,%d) = %d, want %d", tc.w, tc.h, tc.limit, got, tc.want)
			}
		})
	}

	if _, err := mipLevelCount(-1, 4, 0); !errors.Is(err, ErrSizeOverflow) {
		t.Fatalf("expected ErrSizeOverflow, got %v", err)
	}
}
