package options

var (
	// DefaultStackDepth is how many frames a stack fetch asks for when the
	// caller does not care.
	DefaultStackDepth = 1000

	// ConfigDirName is the per-user directory (under the home dir) holding
	// the CLI config file.
	ConfigDirName = ".remdbg"

	// ConfigFileName is the CLI config file within ConfigDirName,
	// extension included.
	ConfigFileName = "config.yaml"

	// AvailableEvents lists the thread-actor event categories a listener
	// can subscribe to.
	AvailableEvents = []string{"paused", "exited", "wrongState", "newSource"}
)
