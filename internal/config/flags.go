package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagSeed     = flag.Uint64("seed", 0, "Random seed for grooming and baking")
	flagStrands  = flag.Int("strands", 0, "Number of strands to generate")
	flagPoints   = flag.Int("points", 0, "Control points per strand")
	flagTicks    = flag.Int("ticks", 0, "Simulation ticks to run")
	flagOut      = flag.String("out", "", "Output directory")
	flagDistance = flag.Float64("distance", -1, "Camera distance for LOD selection")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ParseArgs parses args with the same flags as ParseFlags. Sub-commands use
// it on the arguments that follow the command name.
func ParseArgs(args []string) error {
	return flag.CommandLine.Parse(args)
}

// Args returns the arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSeed > 0 {
		cfg.Groom.Seed = *flagSeed
		cfg.Bake.Seed = *flagSeed
	}
	if *flagStrands > 0 {
		cfg.Groom.StrandCount = *flagStrands
	}
	if *flagPoints > 0 {
		cfg.Groom.ControlPointsPerStrand = *flagPoints
	}
	if *flagTicks > 0 {
		cfg.Run.Ticks = *flagTicks
	}
	if *flagOut != "" {
		cfg.Export.OutputDir = *flagOut
	}
	if *flagDistance >= 0 {
		cfg.Run.Distance = float32(*flagDistance)
	}
}
