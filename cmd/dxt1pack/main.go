// dxt1pack converts images to DXT1 (BC1) DDS and EDDS textures and back.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/dxt1"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	qualityFlag    = flag.String("quality", dxt1.QualityDefault.String(), "search effort: superfast|fast|normal|better|uber")
	uniformFlag    = flag.Bool("uniform", false, "weight RGB errors equally instead of by luma")
	grayFlag       = flag.Bool("gray", false, "measure errors on luma only")
	noAlphaFlag    = flag.Bool("noalpha", false, "never emit punch-through blocks")
	thresholdFlag  = flag.Int("threshold", dxt1.DefaultAlphaThreshold, "alpha below which a pixel is transparent")
	blackFlag      = flag.Bool("black", false, "let opaque black pixels use the transparent index")
	roundFlag      = flag.Bool("round", false, "optimize for decoders that round interpolated colors")
	noCacheFlag    = flag.Bool("nocache", false, "do not seed blocks with the results of their neighbours")
	mipsFlag       = flag.Int("mips", 0, "maximum mip levels, 0 for the full chain")
	noCompressFlag = flag.Bool("nocompress", false, "store EDDS mip bodies uncompressed")
	workersFlag    = flag.Int("workers", 0, "encoder goroutines, 0 for GOMAXPROCS")
	decodeFlag     = flag.Bool("decode", false, "decode a DDS/EDDS file to PNG")
	outFlag        = flag.String("o", "", "output path")
	verboseFlag    = flag.Bool("v", false, "print encode statistics")
)

const usageStr = `dxt1pack converts images to DXT1 (BC1) DDS and EDDS textures.

Usage:

    dxt1pack [flags] input.png
    dxt1pack -decode [-o out.png] input.edds

Encoding reads BMP, GIF, JPEG, PNG, TIFF or WEBP. The output container is
chosen by the -o extension (.dds or .edds) and defaults to the input name with
an .edds extension.

Flags:
`

func main() {
	if err := main1(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main1() error {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usageStr)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return errors.New("exactly one input path is required")
	}
	in := flag.Arg(0)

	if *decodeFlag {
		return decode(in, outputPath(in, ".png"))
	}
	return encode(in, outputPath(in, ".edds"))
}

func outputPath(in, ext string) string {
	if *outFlag != "" {
		return *outFlag
	}
	return strings.TrimSuffix(in, filepath.Ext(in)) + ext
}

func encode(in, out string) error {
	quality, err := dxt1.ParseQuality(*qualityFlag)
	if err != nil {
		return err
	}

	f, err := os.Open(in)
	if err != nil {
		return err
	}
	img, format, err := image.Decode(f)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	opts := &dxt1.WriteOptions{
		Encode: &dxt1.EncodeOptions{
			Quality:                quality,
			Workers:                *workersFlag,
			AlphaThreshold:         *thresholdFlag,
			AllowAlphaBlocks:       !*noAlphaFlag,
			Perceptual:             !*uniformFlag,
			Grayscale:              *grayFlag,
			EndpointCaching:        !*noCacheFlag,
			UseTransparentForBlack: *blackFlag,
			AlternateRounding:      *roundFlag,
		},
		MaxMipMaps: *mipsFlag,
		Compress:   !*noCompressFlag,
	}

	stats, err := dxt1.WriteFile(out, img, opts)
	if err != nil {
		return err
	}

	if *verboseFlag {
		b := img.Bounds()
		log.Printf("%s (%s %dx%d) -> %s", in, format, b.Dx(), b.Dy(), out)
		log.Printf("quality=%s blocks=%d alpha=%d solid=%d error=%d",
			quality, stats.Blocks, stats.AlphaBlocks, stats.SolidBlocks, stats.TotalError)
	}
	return nil
}

func decode(in, out string) error {
	img, err := dxt1.Read(in)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	if *verboseFlag {
		log.Printf("%s -> %s", in, out)
	}
	return f.Close()
}
