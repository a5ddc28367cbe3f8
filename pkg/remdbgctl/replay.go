package remdbgctl

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	survey "gopkg.in/AlecAivazis/survey.v1"

	rdOpts "github.com/solo-io/remdbg/pkg/options"
	"github.com/solo-io/remdbg/pkg/rdp"
	"github.com/solo-io/remdbg/pkg/replay"
)

func (o *Options) ReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace-file>",
		Short: "replay a captured packet trace through a thread client",
		Long: fmt.Sprintf(`Replay reads a JSON-lines capture of inbound packets, feeds the ones sent
by a chosen thread actor through a fresh client, and reports how each
packet was routed. Reported events: %v. When the trace contains several
actors and none is named with --actor, you will be asked to pick one.`,
			strings.Join(rdOpts.AvailableEvents, ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runReplay(args[0])
		},
	}
	applyReplayFlags(&o.Replay, cmd.Flags())
	return cmd
}

// ActorsCmd lists the actors present in a trace without replaying it.
func (o *Options) ActorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actors <trace-file>",
		Short: "list the actors a trace has packets from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			packets, err := o.loadTrace(args[0])
			if err != nil {
				return err
			}
			names := replay.Actors(packets)
			if o.Json {
				return printJson(names)
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func (o *Options) runReplay(path string) error {
	packets, err := o.loadTrace(path)
	if err != nil {
		return err
	}

	actor := o.Replay.Actor
	if actor == "" {
		actor, err = chooseActor(replay.Actors(packets))
		if err != nil {
			return err
		}
	}

	if o.Verbose {
		spew.Fdump(os.Stderr, packets)
	}

	report := replay.Run(packets, actor)
	if o.Json {
		return printJson(report)
	}
	printReport(report)
	return nil
}

func (o *Options) loadTrace(path string) ([]rdp.Packet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening trace %v", path)
	}
	defer f.Close()

	packets, loadErr := replay.LoadTrace(f)
	if loadErr != nil {
		// A damaged capture is still worth replaying; say what was lost.
		fmt.Fprintf(os.Stderr, "skipped unparsable trace content:\n%v\n", loadErr)
	}
	if len(packets) == 0 {
		return nil, errors.Errorf("no packets found in trace %v", path)
	}
	return packets, nil
}

func chooseActor(actors []string) (string, error) {
	switch len(actors) {
	case 0:
		return "", errors.New("trace contains no packets with a sender")
	case 1:
		return actors[0], nil
	}
	question := &survey.Select{
		Message: "Select a thread actor to replay:",
		Options: actors,
	}
	var choice string
	if err := survey.AskOne(question, &choice, survey.Required); err != nil {
		return "", err
	}
	return choice, nil
}

func printReport(r *replay.Report) {
	fmt.Printf("actor %v: %v packets delivered, %v from other actors\n", r.Actor, r.Delivered, r.Skipped)
	for _, e := range r.Events {
		if e.Detail != "" {
			fmt.Printf("  packet %v: %v (%v)\n", e.Seq, e.Kind, e.Detail)
		} else {
			fmt.Printf("  packet %v: %v\n", e.Seq, e.Kind)
		}
	}
	if len(r.Warnings) > 0 {
		fmt.Println("warnings:")
		for _, w := range r.Warnings {
			fmt.Printf("  %v\n", w)
		}
	}
}

func printJson(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
