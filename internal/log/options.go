package log

// Options are the logging flags shared by every command.
type Options struct {
	Level   string `help:"Log level" default:"info" enum:"trace,debug,info,warn,error" env:"XKBREV_LOG_LEVEL"`
	File    string `help:"Also write log records to this file" env:"XKBREV_LOG_FILE"`
	RawFile string `help:"Dump raw setxkbmap/xkbcomp output to this file" env:"XKBREV_LOG_RAW_FILE"`
}
