package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ironsheep/maprdy-mcp/internal/config"
	"github.com/ironsheep/maprdy-mcp/internal/imaging"
	"github.com/ironsheep/maprdy-mcp/internal/logging"
	"github.com/ironsheep/maprdy-mcp/internal/pipeline"
	"github.com/ironsheep/maprdy-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("maprdy-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "process":
			cfg := loadConfig()
			if err := runProcess(cfg, os.Args[2:]); err != nil {
				logging.Error("%v", err)
				os.Exit(1)
			}
			return
		}
	}

	cfg := loadConfig()
	logging.Info("maprdy-mcp %s (built %s, commit %s)", Version, BuildTime, GitCommit)

	server.Version = Version
	if err := server.New(cfg).Run(); err != nil {
		logging.Error("server error: %v", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("maprdy-mcp - MCP server that turns color maps into black-and-white line art")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  maprdy-mcp [options]                  Serve MCP over stdin/stdout")
	fmt.Println("  maprdy-mcp process [flags] <image>    Process one map and write a PNG")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Process flags:")
	fmt.Println("  -o <file>            Output PNG (default from config, maprdy-map.png)")
	fmt.Println("  -settings <file>     JSON settings map as written by map_export_settings")
	fmt.Println("  -set key=value       Override one setting, repeatable")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=<file>         Config file (default %s)\n", config.EnvConfigPath, config.DefaultPath)
	fmt.Printf("  %s=debug       Log level: debug, info, warn, error\n", logging.EnvLevel)
	fmt.Printf("  %s=<px>   Longest source side after fitting\n", config.EnvMaxDimension)
	fmt.Printf("  %s=<lang>   Tesseract language for the text layer\n", config.EnvOCRLanguage)
	fmt.Println()
	fmt.Println("Logs go to stderr; stdout is reserved for the MCP protocol.")
}

// loadConfig reads the configuration and applies its log level. Config
// errors are fatal.
func loadConfig() *config.Config {
	cfg, err := config.FromEnv()
	if err != nil {
		logging.Error("failed to load config: %v", err)
		os.Exit(1)
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		logging.Warn("%v", err)
	}
	return cfg
}

// runProcess implements the process subcommand.
func runProcess(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	output := fs.String("o", cfg.OutputName, "output PNG path")
	settingsFile := fs.String("settings", "", "JSON settings map")
	overrides := map[string]string{}
	fs.Func("set", "override one setting as key=value", func(v string) error {
		key, value, ok := strings.Cut(v, "=")
		if !ok {
			return fmt.Errorf("expected key=value, got %q", v)
		}
		overrides[key] = value
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("process needs exactly one input image, got %d", fs.NArg())
	}

	settings := cfg.Settings
	if *settingsFile != "" {
		data, err := os.ReadFile(*settingsFile)
		if err != nil {
			return fmt.Errorf("failed to read settings: %w", err)
		}
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("failed to parse settings %s: %w", *settingsFile, err)
		}
		if settings, err = pipeline.SettingsFromMap(m, settings); err != nil {
			return err
		}
	}
	if len(overrides) > 0 {
		var err error
		if settings, err = pipeline.SettingsFromMap(overrides, settings); err != nil {
			return err
		}
	}

	src, err := imaging.NewSourceCache().Load(fs.Arg(0), cfg.MaxDimension)
	if err != nil {
		return err
	}
	logging.Info("processing %s (%dx%d) stages %v", fs.Arg(0), src.Info.Width, src.Info.Height, pipeline.Stages(settings))

	out, err := pipeline.Process(src.Raster, settings)
	if err != nil {
		return err
	}
	if err := imaging.SavePNG(out, *output); err != nil {
		return err
	}
	logging.Info("wrote %s", *output)
	return nil
}
