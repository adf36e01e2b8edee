package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vantablack/tracer/pkg/config"
	"github.com/vantablack/tracer/pkg/core"
	"github.com/vantablack/tracer/pkg/geometry"
	"github.com/vantablack/tracer/pkg/imageio"
	"github.com/vantablack/tracer/pkg/integrator"
	"github.com/vantablack/tracer/pkg/material"
	"github.com/vantablack/tracer/pkg/renderer"
	"github.com/vantablack/tracer/pkg/scene"
	"github.com/vantablack/tracer/pkg/texture"
)

// Flags holds every command-line override. Only flags actually passed by
// the user end up in explicitlySet, so a --profile file's settings aren't
// silently clobbered by a flag package default.
type Flags struct {
	Profile string
	Output  string
	Width   int
	Height  int
	Samples int
	Workers int
	Lens    string
	Help    bool
	Verbose bool
}

func main() {
	flags, explicitlySet := parseFlags()
	if flags.Help {
		showHelp()
		return
	}

	cfg := config.Default()
	if flags.Profile != "" {
		profile, err := config.LoadProfile(flags.Profile)
		if err != nil {
			fmt.Printf("Error loading profile: %v\n", err)
			os.Exit(1)
		}
		profile.Apply(&cfg)
	}
	applyFlagOverrides(&cfg, flags, explicitlySet)

	logger, flush, err := config.NewLogger(cfg.Verbose)
	if err != nil {
		fmt.Printf("Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer flush()

	logger.Printf("starting render: %dx%d, %d spp, %d workers", cfg.Width, cfg.Height, cfg.SamplesPerPixel, cfg.Workers)
	start := time.Now()

	sc := buildCornellBoxScene()
	cam := buildCamera(flags.Lens, cfg)
	integ := integrator.New(sc, logger)

	film := renderer.NewFilm(cfg.Width, cfg.Height)
	samplingCfg := renderer.SamplingConfig{
		SamplesPerPixel:   cfg.SamplesPerPixel,
		SubPixelGrid:      cfg.SubPixelGrid,
		Workers:           cfg.Workers,
		FrameSalt:         0x9E3779B97F4A7C15,
		AdaptiveThreshold: cfg.AdaptiveThreshold,
	}
	renderer.Render(film, cam, integ, samplingCfg, logger)

	if err := imageio.WriteBMP(cfg.Output, film); err != nil {
		fmt.Printf("Error writing output: %v\n", err)
		os.Exit(1)
	}

	logger.Printf("render complete in %v, written to %s", time.Since(start), cfg.Output)
}

func parseFlags() (Flags, map[string]bool) {
	var f Flags
	flag.StringVar(&f.Profile, "profile", "", "Path to a YAML render profile")
	flag.StringVar(&f.Output, "output", "render.bmp", "Output BMP file path")
	flag.IntVar(&f.Width, "width", 800, "Image width in pixels")
	flag.IntVar(&f.Height, "height", 600, "Image height in pixels")
	flag.IntVar(&f.Samples, "samples", 128, "Samples per pixel")
	flag.IntVar(&f.Workers, "workers", 4, "Number of parallel row workers")
	flag.StringVar(&f.Lens, "lens", "pinhole", "Camera lens: pinhole, disk, or hexagon")
	flag.BoolVar(&f.Help, "help", false, "Show help information")
	flag.BoolVar(&f.Verbose, "verbose", false, "Enable debug-level logging")
	flag.Parse()

	explicit := map[string]bool{}
	flag.Visit(func(fl *flag.Flag) { explicit[fl.Name] = true })
	return f, explicit
}

func applyFlagOverrides(cfg *config.Config, f Flags, explicit map[string]bool) {
	if explicit["output"] {
		cfg.Output = f.Output
	}
	if explicit["width"] {
		cfg.Width = f.Width
	}
	if explicit["height"] {
		cfg.Height = f.Height
	}
	if explicit["samples"] {
		cfg.SamplesPerPixel = f.Samples
	}
	if explicit["workers"] {
		cfg.Workers = f.Workers
	}
	if explicit["verbose"] {
		cfg.Verbose = f.Verbose
	}
}

func showHelp() {
	fmt.Println("tracer — an offline Monte Carlo path tracer")
	fmt.Println("Usage: tracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
}

func buildCamera(lens string, cfg config.Config) renderer.Camera {
	kind := renderer.LensPinhole
	switch lens {
	case "disk":
		kind = renderer.LensDisk
	case "hexagon":
		kind = renderer.LensHexagon
	}
	aspect := float64(cfg.Width) / float64(cfg.Height)
	return renderer.NewCamera(
		kind,
		core.Vec3{X: 278, Y: 278, Z: -800},
		core.Vec3{X: 278, Y: 278, Z: 0},
		core.Vec3{Y: 1},
		cfg.VerticalFOV, aspect, cfg.Aperture, cfg.FocusDistance,
	)
}

// buildCornellBoxScene programmatically constructs the classic Cornell box
// as the built-in default scene. Scene geometry stays code-only; no
// scene-description file format is read.
func buildCornellBoxScene() *scene.Scene {
	ids := core.NewIDAllocator()
	transIDs := core.NewIDAllocator()
	red := texture.NewSolid(core.Color{X: 0.65, Y: 0.05, Z: 0.05})
	green := texture.NewSolid(core.Color{X: 0.12, Y: 0.45, Z: 0.15})
	white := texture.NewSolid(core.Color{X: 0.73, Y: 0.73, Z: 0.73})
	lightTex := texture.NewSolid(core.Color{X: 15, Y: 15, Z: 15})

	lambert := material.NewLambertian()
	light := material.NewLight()

	var prims []geometry.Primitive
	prims = append(prims,
		geometry.NewRectangle(ids.Next(), core.AxisX, 555, 0, 555, 0, 555, true, lambert, green),
		geometry.NewRectangle(ids.Next(), core.AxisX, 0, 0, 555, 0, 555, false, lambert, red),
		geometry.NewRectangle(ids.Next(), core.AxisY, 554, 213, 343, 227, 332, true, light, lightTex),
		geometry.NewRectangle(ids.Next(), core.AxisY, 0, 0, 555, 0, 555, false, lambert, white),
		geometry.NewRectangle(ids.Next(), core.AxisY, 555, 0, 555, 0, 555, true, lambert, white),
		geometry.NewRectangle(ids.Next(), core.AxisZ, 555, 0, 555, 0, 555, true, lambert, white),
	)

	glass := material.NewDielectric(1.5, transIDs.Next())
	prims = append(prims, geometry.NewSphere(ids.Next(), core.Vec3{X: 190, Y: 90, Z: 190}, 90, glass, white))

	metal := material.NewSpecularConductor(core.Vec3{X: 0.2, Y: 0.2, Z: 0.2}, core.Vec3{X: 3, Y: 3, Z: 3})
	prims = append(prims, geometry.NewSphere(ids.Next(), core.Vec3{X: 370, Y: 90, Z: 370}, 90, metal, white))

	return scene.New(prims, texture.Texture{}, false)
}
