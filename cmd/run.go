package cmd

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Collect every configured organization then publish the files",
	Long: `Run chains collect and publish. Publishing only starts once every configured
organization table has been written.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		collector, publisher, err := newServices()
		if err != nil {
			return err
		}

		if _, err := collect(cmd.Context(), collector, cfg.Collector.Organizations); err != nil {
			return err
		}

		return publish(cmd.Context(), publisher)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
