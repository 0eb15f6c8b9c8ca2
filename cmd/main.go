package main

import (
	"context"
	"fmt"
	stdimage "image"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	avif "github.com/vegidio/goavif"
	"github.com/vegidio/goavif/codec"
	"golang.org/x/image/bmp"
)

func main() {
	cmd := &cli.Command{
		Name:            "goavifinfo",
		Usage:           "inspect the item table of an AVIF container, or reformat it to BMP",
		UsageText:       "goavifinfo <info|decode> <input.avif> [output.bmp]",
		Version:         "<version>",
		HideHelpCommand: true,
		Commands: []*cli.Command{
			{
				Name:      "info",
				Usage:     "print the item table of an AVIF container",
				UsageText: "goavifinfo info <input.avif>",
				Action: func(ctx context.Context, command *cli.Command) error {
					input := command.Args().First()
					if len(input) == 0 {
						return fmt.Errorf("missing input file")
					}

					now := time.Now()
					items, primaryID, err := inspect(input)
					duration := time.Since(now)
					if err != nil {
						return err
					}

					printItems(input, items, primaryID, duration)
					return nil
				},
			},
			{
				Name:      "decode",
				Usage:     "reformat a synthetic fixture (raw YUV444 payload) to BMP",
				UsageText: "goavifinfo decode <input.avif> <output.bmp>",
				Action: func(ctx context.Context, command *cli.Command) error {
					input := command.Args().First()
					output := command.Args().Tail()[0]
					if len(input) == 0 || len(output) == 0 {
						return fmt.Errorf("usage: decode <input.avif> <output.bmp>")
					}

					now := time.Now()
					err := decodeToBMP(input, output)
					duration := time.Since(now)
					if err == nil {
						fmt.Println(green.Render(fmt.Sprintf("✅ Decoded %s to %s in %s", input, output, duration.Truncate(time.Millisecond))))
					}
					return err
				},
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			return fmt.Errorf("either the <info> or <decode> command must be used")
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		msg := fmt.Sprintf("🧨 %v", err)
		fmt.Println(red.Render(msg))
		os.Exit(1)
	}
}

func decodeToBMP(input, output string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	dec := avif.NewDecoder(codec.SliceIO{Data: data}, nil, avif.Options{})
	if err := dec.Parse(); err != nil {
		return fmt.Errorf("parsing %s: %w", input, err)
	}

	primary, ok := find(dec.Items(), dec.PrimaryItemID())
	if !ok {
		return fmt.Errorf("primary item not found")
	}

	decWithCodec := avif.NewDecoder(codec.SliceIO{Data: data}, demoCodec{width: int(primary.Width), height: int(primary.Height)}, avif.Options{})
	if err := decWithCodec.Parse(); err != nil {
		return fmt.Errorf("parsing %s: %w", input, err)
	}
	img, err := decWithCodec.Decode()
	if err != nil {
		return fmt.Errorf("decoding %s: %w", input, err)
	}

	rgb, err := img.Reformat(1, 1, true, avif.ReformatOptions{Format: avif.FormatRGB})
	if err != nil {
		return fmt.Errorf("reformatting %s: %w", input, err)
	}

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	defer out.Close()

	return bmp.Encode(out, toStdImage(rgb))
}

func toStdImage(rgb *avif.RGBImage) stdimage.Image {
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, rgb.Width, rgb.Height))
	for y := 0; y < rgb.Height; y++ {
		for x := 0; x < rgb.Width; x++ {
			src := y*rgb.Stride + x*rgb.BytesPerPixel()
			dst := img.PixOffset(x, y)
			img.Pix[dst+0] = rgb.Pixels[src+0]
			img.Pix[dst+1] = rgb.Pixels[src+1]
			img.Pix[dst+2] = rgb.Pixels[src+2]
			img.Pix[dst+3] = 0xFF
		}
	}
	return img
}

func find(items []avif.ItemInfo, id uint32) (avif.ItemInfo, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return avif.ItemInfo{}, false
}

func inspect(path string) ([]avif.ItemInfo, uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", path, err)
	}

	dec := avif.NewDecoder(codec.SliceIO{Data: data}, noopCodec{}, avif.Options{})
	if err := dec.Parse(); err != nil {
		return nil, 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	return dec.Items(), dec.PrimaryItemID(), nil
}

func printItems(path string, items []avif.ItemInfo, primaryID uint32, duration time.Duration) {
	msg := fmt.Sprintf("✅ Parsed %s in %s", path, duration.Truncate(time.Millisecond))
	fmt.Println(green.Render(msg))

	for _, it := range items {
		marker := ""
		if it.ID == primaryID {
			marker = " (primary)"
		}
		line := fmt.Sprintf("🖼 item %d: type=%s %dx%d size=%d%s", it.ID, it.Type, it.Width, it.Height, it.Size, marker)
		if it.Skipped {
			fmt.Println(yellow.Render(line + " [skipped]"))
		} else {
			fmt.Println(line)
		}
	}
}

// noopCodec satisfies codec.Decoder for the info command, which only needs
// item-table parsing and never decodes AV1 samples.
type noopCodec struct{}

func (noopCodec) Initialize(int, bool) error { return nil }

func (noopCodec) GetNextImage([]byte, int, *codec.Image, codec.Category) error {
	return fmt.Errorf("goavifinfo does not decode AV1 samples; bring your own codec.Decoder")
}
