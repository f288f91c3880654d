package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/hexforge/pixelnode/internal/shader"
)

func main() {
	width := flag.Int("w", 512, "output width in pixels")
	height := flag.Int("h", 512, "output height in pixels")
	exprR := flag.String("r", "", "expression for the red channel")
	exprG := flag.String("g", "", "expression for the green channel")
	exprB := flag.String("b", "", "expression for the blue channel")
	output := flag.String("o", "out.png", "output PNG path")
	verbose := flag.Bool("verbose", false, "log per-channel diagnostics to stderr")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "pixelnode-render - render per-pixel expressions to a PNG")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Variables: $x $y $u $v $w $h $r $g $b")
		fmt.Fprintln(os.Stderr, "Functions: sqrt min max abs sin cos tan floor ceil pow clamp")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Example:")
		fmt.Fprintln(os.Stderr, `  pixelnode-render -w 512 -h 512 -r 'sqrt($u)' -g '$v' -b '$u*$v' -o grad.png`)
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	log.SetOutput(os.Stderr)
	log.SetFlags(0)

	if *verbose {
		shader.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	img, err := shader.Evaluate(nil, *width, *height, *exprR, *exprG, *exprB)
	if err != nil {
		log.Fatalf("render failed: %v", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create %s: %v", *output, err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		log.Fatalf("failed to encode %s: %v", *output, err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("failed to write %s: %v", *output, err)
	}
}
