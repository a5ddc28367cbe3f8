package remdbgctl

import (
	"github.com/spf13/cobra"
)

const rootCommandDescription = `remdbg works with client-side captures of the remote debugging protocol.
Its main use is replaying the inbound half of a captured session through a
fresh thread-actor client, to see how each packet was classified: which
handle it settled, which event it raised, or why it was dropped. That is
usually enough to pin down a protocol desync without re-running the target.
`

func App(version string) (*cobra.Command, error) {
	app := &cobra.Command{
		Use:     "remdbg",
		Short:   "inspect remote debugging protocol sessions",
		Long:    rootCommandDescription,
		Version: version,
	}

	opts := &Options{}
	if err := opts.readConfigValues(); err != nil {
		return &cobra.Command{}, err
	}

	app.SuggestionsMinimumDistance = 1
	app.AddCommand(
		opts.ReplayCmd(),
		opts.ActorsCmd(),
	)

	applyRootFlags(opts, app.PersistentFlags())

	return app, nil
}
