package remdbgctl

// Options is the root of the CLI option tree. Flags, config file values
// and defaults all land here; sub commands only touch their own branch.
type Options struct {
	Json    bool
	Verbose bool

	Replay   ReplayOptions
	Internal Internal
}

type ReplayOptions struct {
	Actor string
}

// Internal holds cross-command bookkeeping that is not user-facing.
type Internal struct {
	ConfigLoaded bool
	ConfigRead   Config
}

// Config mirrors the per-user config file.
type Config struct {
	Verbose  bool   `yaml:"verbose"`
	LogLevel string `yaml:"log_level"`
}
