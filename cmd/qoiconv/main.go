// Command qoiconv converts between QOI and the common raster container
// formats (PNG, BMP) it round-trips through Go's image.Image. It is a thin
// consumer of the qoi-codec core, not part of the core itself.
package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/image/bmp"

	"github.com/kflorence/qoi"
)

var (
	verbose   bool
	reference bool
	output    string
)

func main() {
	root := &cobra.Command{
		Use:   "qoiconv <input>",
		Short: "Convert images to and from QOI",
		Args:  cobra.ExactArgs(1),
		RunE:  runConvert,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.Flags().BoolVar(&reference, "reference", false, "use reference-mode QOI encoding")
	root.Flags().StringVarP(&output, "output", "o", "", "output path (default: same name, new extension)")

	root.AddCommand(infoCommand())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("conversion failed")
		os.Exit(1)
	}
}

func setupLogging() {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
}

func runConvert(cmd *cobra.Command, args []string) error {
	setupLogging()
	inputPath := args[0]

	src, err := decodeAny(inputPath)
	if err != nil {
		return errors.Wrapf(err, "decoding %s", inputPath)
	}
	log.Debug().Str("path", inputPath).Str("bounds", src.Bounds().String()).Msg("decoded source image")

	dstPath := output
	if dstPath == "" {
		dstPath = defaultOutputPath(inputPath)
	}

	if err := encodeAny(dstPath, src); err != nil {
		return errors.Wrapf(err, "encoding %s", dstPath)
	}
	log.Info().Str("input", inputPath).Str("output", dstPath).Msg("converted")
	return nil
}

// decodeAny dispatches on the input file's extension to pick a decoder:
// .qoi goes through this repo's own core, everything else through the
// registered stdlib/x/image codecs.
func decodeAny(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".qoi":
		return qoi.ImageDecode(f)
	case ".bmp":
		return bmp.Decode(f)
	default:
		img, _, err := image.Decode(f)
		return img, err
	}
}

// encodeAny dispatches on the output file's extension to pick an encoder.
func encodeAny(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".qoi":
		opts := qoi.EncodeOptions{Reference: reference}
		return encodeQOI(f, img, opts)
	case ".bmp":
		return bmp.Encode(f, img)
	default:
		return png.Encode(f, img)
	}
}

func encodeQOI(w *os.File, img image.Image, opts qoi.EncodeOptions) error {
	if opts.Reference {
		return qoi.ImageEncodeWithOptions(w, img, opts)
	}
	return qoi.ImageEncode(w, img)
}

func defaultOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	if strings.EqualFold(ext, ".qoi") {
		return base + ".png"
	}
	return base + ".qoi"
}

func infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.qoi>",
		Short: "Print a QOI file's header without decoding pixel data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			cfg, err := qoi.DecodeConfig(f)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %dx%d\n", args[0], cfg.Width, cfg.Height)
			return nil
		},
	}
}
