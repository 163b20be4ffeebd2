// Package config defines the root command line of xkbrev.
package config

import (
	"github.com/Alia5/xkbrev/internal/cmd"
	"github.com/Alia5/xkbrev/internal/log"
)

// CLI is the root kong model. Flags and environment variables override
// values loaded from configuration files.
type CLI struct {
	ConfigFile string      `name:"config" help:"Configuration file (JSON, YAML or TOML)" type:"path" env:"XKBREV_CONFIG"`
	Log        log.Options `embed:"" prefix:"log."`
	Quiet      bool        `short:"q" help:"Only log warnings and errors"`
	Verbose    bool        `short:"v" help:"Log debug output"`

	Export cmd.Export        `cmd:"" default:"withargs" help:"Reconstruct a layout and write it as a keymap"`
	Config cmd.ConfigCommand `cmd:"" help:"Configuration file helpers"`
}

// LogLevel is the configured level after applying --quiet and --verbose.
func (c *CLI) LogLevel() string {
	return log.AdjustLevel(c.Log.Level, c.Quiet, c.Verbose)
}
