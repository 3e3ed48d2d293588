package cmd

import (
	"context"

	"github.com/Scalingo/repos-languages/config"
	"github.com/Scalingo/repos-languages/model"
	"github.com/Scalingo/repos-languages/service"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var collectCmd = &cobra.Command{
	Use:   "collect [org...]",
	Short: "Write one CSV table of repositories languages per organization",
	Long: `Collect pages through the public repositories of each organization and writes
a CSV file with the columns repos_names and repos_languages.

Organizations given as arguments replace the configured list. An argument naming a
configured organization keeps its Output, others are written in COLLECTOR.OutputDir
as linguagens_<org>.csv.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		collector, _, err := newServices()
		if err != nil {
			return err
		}

		_, err = collect(cmd.Context(), collector, organizations(args))
		return err
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

// organizations returns the organizations given as arguments, or the configured ones
// an argument matching a configured name reuses its output file
func organizations(args []string) []config.OrganizationConfig {
	if len(args) == 0 {
		return cfg.Collector.Organizations
	}

	configured := make(map[string]config.OrganizationConfig, len(cfg.Collector.Organizations))
	for _, org := range cfg.Collector.Organizations {
		configured[org.Name] = org
	}

	orgs := make([]config.OrganizationConfig, 0, len(args))
	for _, name := range args {
		if org, ok := configured[name]; ok {
			orgs = append(orgs, org)
			continue
		}

		orgs = append(orgs, config.OrganizationConfig{Name: name})
	}

	return orgs
}

func collect(ctx context.Context, collector service.CollectorService, orgs []config.OrganizationConfig) ([]model.CollectResult, error) {
	results, err := collector.CollectAll(ctx, orgs)

	for _, r := range results {
		entry := log.WithFields(log.Fields{
			"organization": r.Organization,
			"output":       r.Output,
			"status":       r.Listing.Status,
			"rows":         r.Table.Len(),
		})

		if r.Listing.Status == model.ListingComplete {
			entry.Info("organization collected")
		} else {
			entry.WithError(r.Listing.Err).Warning("organization collected with an incomplete listing")
		}
	}

	if err != nil {
		log.WithError(err).Error("collect stopped")
		return results, err
	}

	return results, nil
}
