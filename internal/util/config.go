package util

import "github.com/BurntSushi/toml"

// Configuration carries the settings the CLI resolves from its flags
// and the optional TOML configuration file. Flags win over the file;
// the version fields are stamped at build time.
type Configuration struct {
	Version   string `toml:"-"`
	BuildDate string `toml:"-"`
	Commit    string `toml:"-"`

	LogLevel     string `toml:"log_level"`
	LogFile      string `toml:"log_file"`
	DebugTxtAST  bool   `toml:"debug_ast"`
	DebugJsonAST bool   `toml:"debug_ast_json"`
	CheckOnly    bool   `toml:"-"`
}

// LoadConfiguration reads a TOML file over config, leaving fields the
// file does not mention untouched.
func LoadConfiguration(path string, config *Configuration) error {
	_, err := toml.DecodeFile(path, config)
	return err
}
