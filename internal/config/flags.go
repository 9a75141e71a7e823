package config

import (
	"flag"
	"io"
)

var (
	flags = flag.NewFlagSet("weldtool", flag.ContinueOnError)

	flagConfig     = flags.String("config", "", "Path to config file")
	flagDebug      = flags.Bool("debug", false, "Enable debug logging")
	flagLogFile    = flags.String("log-file", "", "Write logs to this file")
	flagNoValidate = flags.Bool("no-validate", false, "Skip draw-call index validation")
	flagOverwrite  = flags.Bool("f", false, "Overwrite existing output files")
	flagOutput     = flags.String("o", "", "Output mesh path")
)

// ParseFlags parses command-line flags and returns the remaining
// positional arguments. Flags absent from args are reset to their
// defaults, so values never carry over from an earlier call.
func ParseFlags(args []string) ([]string, error) {
	flags.VisitAll(func(f *flag.Flag) {
		_ = f.Value.Set(f.DefValue)
	})
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	return flags.Args(), nil
}

// PrintFlags writes flag usage to w.
func PrintFlags(w io.Writer) {
	flags.SetOutput(w)
	flags.PrintDefaults()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

// OutputPath returns the output mesh path if provided via -o.
func OutputPath() string {
	return *flagOutput
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagNoValidate {
		cfg.Weld.ValidateIndices = false
	}
	if *flagOverwrite {
		cfg.Output.Overwrite = true
	}
}
