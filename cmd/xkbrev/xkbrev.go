package main

import (
	"os"
	"strings"

	"github.com/Alia5/xkbrev/internal/config"
	"github.com/Alia5/xkbrev/internal/configpaths"
	"github.com/Alia5/xkbrev/internal/log"

	_ "github.com/Alia5/xkbrev/internal/registry" // Register all output generators

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
)

func main() {
	args := setxkbmapArgs(os.Args[1:])
	userCfg := findUserConfig(args)
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	var cli config.CLI
	parser, err := kong.New(&cli,
		kong.Name("xkbrev"),
		kong.Description("Reconstruct an X11 keyboard layout and export it as an XRDP keymap"),
		kong.UsageOnError(),
		// Load configuration from JSON/YAML/TOML in priority order; flags/env override config values.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(args)
	parser.FatalIfErrorf(err)

	logger, closeFiles, err := log.SetupLogger(cli.LogLevel(), cli.Log.File)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	var rawLogger log.RawLogger
	if cli.Log.RawFile != "" {
		f, err := os.OpenFile(cli.Log.RawFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Error("failed to open raw log file", "file", cli.Log.RawFile, "error", err)
			rawLogger = log.NewRaw(nil)
		} else {
			rawLogger = log.NewRaw(f)
			closeFiles = append(closeFiles, f)
		}
	} else if cli.LogLevel() == "trace" {
		rawLogger = log.NewRaw(os.Stderr)
	} else {
		rawLogger = log.NewRaw(nil)
	}

	ctx.Bind(logger)
	ctx.BindTo(rawLogger, (*log.RawLogger)(nil))

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("XKBREV_CONFIG"); v != "" {
		return v
	}
	return ""
}

// setxkbmapArgs accepts the single dash options of setxkbmap, so that
// `xkbrev $(cat ~/.Xkbmap)` works.
func setxkbmapArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		switch {
		case a == "-layout", a == "-variant", a == "-option",
			strings.HasPrefix(a, "-layout="), strings.HasPrefix(a, "-variant="), strings.HasPrefix(a, "-option="):
			out[i] = "-" + a
		default:
			out[i] = a
		}
	}
	return out
}
