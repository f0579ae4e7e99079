// hairtool is a CLI utility for grooming, simulating, baking, and exporting
// procedural hair.
package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-hair/internal/config"
	"github.com/Faultbox/midgard-hair/internal/lod"
	"github.com/Faultbox/midgard-hair/internal/logger"
	"github.com/Faultbox/midgard-hair/internal/pipeline"
	"github.com/Faultbox/midgard-hair/internal/strand"
	"github.com/Faultbox/midgard-hair/internal/texture"
	"github.com/Faultbox/midgard-hair/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	if err := config.ParseArgs(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("hairtool",
		zap.String("command", command),
		zap.Uint64("seed", cfg.Groom.Seed),
		zap.String("out", cfg.Export.OutputDir))

	switch command {
	case "groom":
		err = cmdGroom(ctx, cfg)
	case "simulate", "sim":
		err = cmdSimulate(ctx, cfg)
	case "bake":
		err = cmdBake(ctx, cfg)
	case "lod":
		cmdLOD(cfg)
	case "export":
		err = cmdExport(ctx, cfg)
	case "inspect":
		err = cmdInspect(cfg, config.Args())
	case "config":
		err = cmdConfig(cfg, config.Args())
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`hairtool - procedural hair pipeline utility

Usage:
  hairtool <command> [options]

Commands:
  groom                 Generate strands and show statistics
  simulate              Generate strands and run --ticks simulation ticks
  bake                  Bake the card maps into --out
  lod                   Show the tier for --distance and a selector sweep
  export                Groom, simulate, and write meshes and maps to --out
  inspect [files...]    Summarize baked maps (default: the maps in --out)
  config [path]         Write the effective config (default: user config dir)

Options:
  --config <file>       Config file (default ./hair.yaml, then user config dir)
  --debug               Enable debug logging
  --seed <n>            Random seed
  --strands <n>         Strand count
  --points <n>          Control points per strand
  --ticks <n>           Simulation ticks
  --out <dir>           Output directory
  --distance <d>        Camera distance; export grooms for its LOD tier when > 0

Examples:
  hairtool groom --strands 2000 --seed 7
  hairtool simulate --ticks 120
  hairtool export --out ./build --distance 12
  hairtool inspect --out ./build`)
}

func cmdGroom(ctx context.Context, cfg *config.Config) error {
	p := pipeline.New(cfg)
	if err := p.Groom(ctx); err != nil {
		return err
	}
	printStrandStats(p.Strands())
	return nil
}

func cmdSimulate(ctx context.Context, cfg *config.Config) error {
	p := pipeline.New(cfg)
	if err := p.Groom(ctx); err != nil {
		return err
	}

	before := tips(p.Strands())
	if err := p.Simulate(ctx, cfg.Run.Ticks); err != nil {
		return err
	}

	var maxMove, sumMove float32
	for i, s := range p.Strands() {
		d := s.Points[len(s.Points)-1].Position.Distance(before[i])
		maxMove = max(maxMove, d)
		sumMove += d
	}

	fmt.Printf("Ticks:     %d at %g Hz\n", p.Ticks(), cfg.Run.TickRate)
	printStrandStats(p.Strands())
	if n := len(p.Strands()); n > 0 {
		fmt.Printf("Tip moved: mean %.4f, max %.4f\n", sumMove/float32(n), maxMove)
	}
	return nil
}

func cmdBake(ctx context.Context, cfg *config.Config) error {
	p := pipeline.New(cfg)
	maps, _, err := p.Bake(ctx)
	if err != nil {
		return err
	}

	ext := "." + cfg.Export.TextureFormat
	for _, o := range []struct {
		name string
		img  image.Image
	}{
		{pipeline.AlphaMap, maps.Alpha},
		{pipeline.FlowMap, maps.Flow},
		{pipeline.DepthMap, maps.Depth},
	} {
		path := filepath.Join(cfg.Export.OutputDir, o.name+ext)
		if err := texture.Save(path, o.img); err != nil {
			return err
		}
		fmt.Println(path)
	}
	return nil
}

func cmdLOD(cfg *config.Config) {
	maxDistance := cfg.LOD.MaxDistance
	printTier(cfg.Run.Distance, lod.TierFor(cfg.Run.Distance, maxDistance))

	// Walk the camera out past the card range and back at the tick rate,
	// showing where the selector switches and how the card fades.
	steps := max(cfg.Run.Ticks, 2)
	dt := 1 / cfg.Run.TickRate
	far := maxDistance * 1.2

	fmt.Println()
	fmt.Printf("Selector sweep 0 -> %g -> 0 over %d ticks (margin %g, fade %gs):\n",
		far, 2*steps, cfg.LOD.Margin, cfg.LOD.FadeDuration)

	sel := lod.NewSelector(cfg.LOD)
	prev := sel.Update(0, 0)
	for i := range 2 * steps {
		f := float32(i) / float32(steps)
		if f > 1 {
			f = 2 - f
		}
		d := far * f
		tier := sel.Update(d, dt)
		if tier != prev {
			fmt.Printf("  tick %4d  distance %7.2f  ", i, d)
			printTierLine(tier, sel.CardBlend())
			prev = tier
		}
	}
}

func cmdExport(ctx context.Context, cfg *config.Config) error {
	p := pipeline.New(cfg)

	segments := lod.MaxTier().TubeSegments
	if cfg.Run.Distance > 0 {
		tier := lod.TierFor(cfg.Run.Distance, cfg.LOD.MaxDistance)
		printTier(cfg.Run.Distance, tier)
		segments = tier.TubeSegments
		if tier.StrandCount == 0 {
			logger.Warn("distance is past the strand range, exporting the card only",
				zap.Float32("distance", cfg.Run.Distance),
				zap.Float32("maxDistance", cfg.LOD.MaxDistance))
		}
		if err := p.GroomForTier(ctx, tier); err != nil {
			return err
		}
	} else if err := p.Groom(ctx); err != nil {
		return err
	}

	if err := p.Simulate(ctx, cfg.Run.Ticks); err != nil {
		return err
	}

	written, err := p.Export(ctx, cfg.Export.OutputDir, segments)
	for _, path := range written {
		fmt.Println(path)
	}
	return err
}

func cmdInspect(cfg *config.Config, paths []string) error {
	if len(paths) == 0 {
		ext := "." + cfg.Export.TextureFormat
		for _, name := range []string{pipeline.AlphaMap, pipeline.FlowMap, pipeline.DepthMap, pipeline.CardMap} {
			paths = append(paths, filepath.Join(cfg.Export.OutputDir, name+ext))
		}
	}

	for _, path := range paths {
		info, err := pipeline.Inspect(path)
		if err != nil {
			return err
		}
		channel := "gray"
		if info.HasAlpha {
			channel = "alpha"
		}
		fmt.Printf("%s\n", info.Path)
		fmt.Printf("  %s %dx%d, %s mean %.3f, empty %.1f%%, full %.1f%%\n",
			info.Format, info.Width, info.Height, channel,
			info.Coverage, info.Empty*100, info.Full*100)
	}
	return nil
}

func cmdConfig(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(filepath.Join(config.ConfigDir(), config.FileName))
		return nil
	}
	if err := cfg.SaveTo(args[0]); err != nil {
		return err
	}
	fmt.Println(args[0])
	return nil
}

func printStrandStats(strands []*strand.Strand) {
	fmt.Printf("Strands:   %d\n", len(strands))
	if len(strands) == 0 {
		return
	}

	groups := make(map[strand.Group]int)
	var total, longest float32
	for _, s := range strands {
		groups[s.Group]++
		l := s.Length()
		total += l
		longest = max(longest, l)
	}

	fmt.Printf("Points:    %d per strand, %d samples\n", len(strands[0].Points), strands[0].Samples().Len())
	fmt.Printf("Length:    mean %.4f, max %.4f\n", total/float32(len(strands)), longest)
	fmt.Println("Groups:")

	keys := make([]strand.Group, 0, len(groups))
	for g := range groups {
		keys = append(keys, g)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, g := range keys {
		fmt.Printf("  %-6s %d\n", g, groups[g])
	}
}

func printTier(distance float32, t lod.Tier) {
	fmt.Printf("Distance %g: ", distance)
	printTierLine(t, -1)
}

// printTierLine prints t; a negative blend is left out.
func printTierLine(t lod.Tier, blend float32) {
	if t.StrandCount == 0 {
		fmt.Print("card only")
	} else {
		fmt.Printf("%d strands x %d points, %d-sided tubes", t.StrandCount, t.ControlPointsPerStrand, t.TubeSegments)
		if t.UseCardFallback {
			fmt.Print(" + card")
		}
	}
	if blend >= 0 {
		fmt.Printf(" (card blend %.2f)", blend)
	}
	fmt.Println()
}

func tips(strands []*strand.Strand) []math.Vec3 {
	out := make([]math.Vec3, len(strands))
	for i, s := range strands {
		out[i] = s.Points[len(s.Points)-1].Position
	}
	return out
}
