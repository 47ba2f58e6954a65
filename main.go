package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pkg/errors"

	"github.com/df07/go-progressive-integrator/pkg/core"
	"github.com/df07/go-progressive-integrator/pkg/params"
	"github.com/df07/go-progressive-integrator/pkg/renderer"
	"github.com/df07/go-progressive-integrator/pkg/scene"
)

// options collects the command line flags
type options struct {
	Scene      string
	ParamsFile string
	Frames     int
	Width      int // 0 uses the scene's suggested size
	Height     int
	Workers    int
	Seed       uint64
	OutputDir  string
}

func main() {
	var opts options

	// Parse command line flags
	flag.StringVar(&opts.Scene, "scene", "default", fmt.Sprintf("Scene type: %v", scene.Names()))
	flag.StringVar(&opts.ParamsFile, "params", "", "YAML file overriding the scene's render parameters")
	flag.IntVar(&opts.Frames, "frames", 16, "Number of progressive frames (one sample per pixel each)")
	flag.IntVar(&opts.Width, "width", 0, "Image width (0 = scene default)")
	flag.IntVar(&opts.Height, "height", 0, "Image height (0 = scene default)")
	flag.IntVar(&opts.Workers, "workers", runtime.NumCPU(), "Number of parallel tile workers")
	flag.Uint64Var(&opts.Seed, "seed", 1, "Session seed; equal seeds reproduce equal images")
	flag.StringVar(&opts.OutputDir, "out", "output", "Output root directory")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Progressive Path Integrator")
		fmt.Println("Usage: integrator [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Println("  default - Spheres on a ground quad under a directional sun")
		fmt.Println("  cornell - Cornell box lit by a point light and an emissive panel")
		fmt.Println("  furnace - Emissive ceiling over a diffuse floor (converges to 2/3)")
		fmt.Println()
		fmt.Println("Output will be saved to <out>/<scene>/render_<timestamp>.png")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	filename, err := run(ctx, opts, renderer.NewDefaultLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Render saved as %s\n", filename)
}

// createScene resolves a scene name and applies the optional parameter file
func createScene(name, paramsFile string) (*scene.Scene, error) {
	s, err := scene.Load(name)
	if err != nil {
		return nil, err
	}
	if paramsFile != "" {
		p, err := params.LoadOnto(paramsFile, s.Params)
		if err != nil {
			return nil, err
		}
		s.Params = p
	}
	return s, nil
}

// run renders opts.Frames progressive frames and writes the final image.
// An interrupt stops early and still saves what has accumulated.
func run(ctx context.Context, opts options, logger core.Logger) (string, error) {
	s, err := createScene(opts.Scene, opts.ParamsFile)
	if err != nil {
		return "", err
	}
	if opts.Frames < 1 {
		return "", errors.Errorf("frames must be >= 1, got %d", opts.Frames)
	}

	config := renderer.DefaultSessionConfig()
	config.Width, config.Height = s.Width, s.Height
	if opts.Width > 0 {
		config.Width = opts.Width
	}
	if opts.Height > 0 {
		config.Height = opts.Height
	}
	if opts.Workers > 0 {
		config.NumWorkers = opts.Workers
	}
	config.Seed = opts.Seed

	session, err := renderer.NewSession(s, s.Materials, s.Camera(), s.Params, config, logger)
	if err != nil {
		return "", errors.Wrapf(err, "create session for scene %s", s.Name)
	}
	logger.Printf("Rendering scene %s at %dx%d for %d frames", s.Name, config.Width, config.Height, opts.Frames)

	startTime := time.Now()
	results, errs := session.RenderProgressive(ctx, opts.Frames)
	var last renderer.FrameResult
	for result := range results {
		last = result
	}
	if err := <-errs; err != nil && !errors.Is(err, context.Canceled) {
		return "", err
	}

	stats := last.Stats.Accumulated
	logger.Printf("Render completed in %v", time.Since(startTime))
	logger.Printf("Samples per pixel: %.1f (range %d - %d)", stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)

	return savePNG(filepath.Join(opts.OutputDir, s.Name), session.Image(), time.Now())
}

// savePNG writes img to dir/render_<timestamp>.png, creating dir if needed
func savePNG(dir string, img image.Image, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "create output directory")
	}

	// Create timestamped filename
	filename := filepath.Join(dir, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
	file, err := os.Create(filename)
	if err != nil {
		return "", errors.Wrap(err, "create output file")
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", errors.Wrap(err, "encode png")
	}
	return filename, nil
}
