package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Trigger a sync pass on the server",
		Long: "Asks the server to fetch source price and quantity for every enabled\n" +
			"mapping and push the resulting revisions through the queue. Blocks\n" +
			"until the pass finishes.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newClient()
			r, err := c.TriggerSync(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(r)
			}
			fmt.Printf("Synced %d mappings in %s: %d succeeded, %d failed\n",
				r.Total, r.Duration, r.Succeeded, r.Failed)
			return nil
		},
	}
}
