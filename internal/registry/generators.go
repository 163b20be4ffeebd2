package registry

import (
	_ "github.com/Alia5/xkbrev/dump" // Register json, yaml and toml generators
	_ "github.com/Alia5/xkbrev/xrdp" // Register xrdp keymap generator
)
