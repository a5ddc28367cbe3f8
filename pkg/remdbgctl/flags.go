package remdbgctl

import (
	"github.com/spf13/pflag"
)

func applyRootFlags(o *Options, fs *pflag.FlagSet) {
	fs.BoolVar(&o.Json, "json", false, "output json format")
	fs.BoolVar(&o.Verbose, "verbose", o.Verbose, "dump decoded packets while replaying")
}

func applyReplayFlags(r *ReplayOptions, fs *pflag.FlagSet) {
	fs.StringVar(&r.Actor, "actor", "", "thread actor whose packets to replay")
}
