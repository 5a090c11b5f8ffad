package dxt1

import "github.com/woozymasta/bcn"

const (
	// dxgiFormatBC1 and dxgiFormatBC1SRGB are the DX10 header codes for BC1.
	dxgiFormatBC1     = 71
	dxgiFormatBC1SRGB = 72

	// enfusionMagic is stored in Reserved1[1] of EDDS headers ("ENF1").
	enfusionMagic = 0x31464e45
)

var fourCCDXT1 = makeFourCC('D', 'X', 'T', '1')

// isBC1 reports whether the DDS headers describe a BC1/DXT1 payload.
func isBC1(header *bcn.DDSHeader, dx10 *bcn.DDSHeaderDX10) bool {
	if dx10 != nil {
		return dx10.DXGIFormat == dxgiFormatBC1 || dx10.DXGIFormat == dxgiFormatBC1SRGB
	}
	pf := header.PixelFormat
	return (pf.Flags&bcn.DDSPFFourCC) != 0 && pf.FourCC == fourCCDXT1
}

// isEnfusion reports whether the header carries the EDDS marker.
func isEnfusion(header *bcn.DDSHeader) bool {
	return header.Reserved1[1] == enfusionMagic
}

func makeFourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

// fourCCString renders a FourCC code for error messages.
func fourCCString(value uint32) string {
	return string([]byte{
		byte(value & 0xff),
		byte((value >> 8) & 0xff),
		byte((value >> 16) & 0xff),
		byte((value >> 24) & 0xff),
	})
}

// makeDDSHeader builds a DXT1 DDS header. enfusion marks it as EDDS.
func makeDDSHeader(width, height, mipMapCount int, enfusion bool) (*bcn.DDSHeader, error) {
	w32, err := u32FromInt(width)
	if err != nil {
		return nil, err
	}
	h32, err := u32FromInt(height)
	if err != nil {
		return nil, err
	}
	mip32, err := u32FromInt(mipMapCount)
	if err != nil {
		return nil, err
	}
	linear, err := u32FromInt(EncodedSize(width, height))
	if err != nil {
		return nil, err
	}

	flags := uint32(bcn.DDSFlagCaps | bcn.DDSFlagHeight | bcn.DDSFlagWidth |
		bcn.DDSFlagPixelFormat | bcn.DDSFlagLinearSize)
	caps := uint32(bcn.DDSCapsTexture)
	if mipMapCount > 1 {
		flags |= bcn.DDSFlagMipmapCount
		caps |= bcn.DDSCapsComplex | bcn.DDSCapsMipmap
	}

	hdr := &bcn.DDSHeader{
		Size:              bcn.DDSHeaderSize,
		Flags:             flags,
		Height:            h32,
		Width:             w32,
		PitchOrLinearSize: linear,
		Depth:             1,
		MipMapCount:       mip32,
		Caps:              caps,
	}
	if enfusion {
		hdr.Reserved1[1] = enfusionMagic
	}
	hdr.PixelFormat.Size = bcn.DDSPixelFormatSize
	hdr.PixelFormat.Flags = bcn.DDSPFFourCC
	hdr.PixelFormat.FourCC = fourCCDXT1

	return hdr, nil
}
