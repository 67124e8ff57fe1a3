// Package config holds the root kong command line definition.
package config

import "github.com/hades-lang/cstub/internal/cmd"

type LogConfig struct {
	Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" enum:"trace,debug,info,warn,error" env:"CSTUB_LOG_LEVEL"`
	File    string `help:"Also write logs to this file; console records then all go to stderr" env:"CSTUB_LOG_FILE"`
	Format  string `help:"Log record format: text or json" default:"text" enum:"text,json" env:"CSTUB_LOG_FORMAT"`
	RawFile string `help:"Dump parsed C declaration trees to this file (printed with the console logs at trace level when unset)" env:"CSTUB_LOG_RAW_FILE"`
}

type CLI struct {
	Log        LogConfig `embed:"" prefix:"log."`
	ConfigFile string    `name:"config" help:"Path to a config file (json, yaml or toml)" type:"path" env:"CSTUB_CONFIG"`

	Generate cmd.Generate      `cmd:"" help:"Translate C headers into Hades declarations"`
	Scan     cmd.Scan          `cmd:"" help:"Show the declarations lowered from one header"`
	Config   cmd.ConfigCommand `cmd:"" help:"Configuration file helpers"`
	Version  cmd.Version       `cmd:"" help:"Print the version"`
}
