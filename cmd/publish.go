package cmd

import (
	"context"

	"github.com/Scalingo/repos-languages/service"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Create the target repository and upload the collected CSV files",
	Long: `Publish creates PUBLISHER.Repository for the authenticated user and uploads each
file of PUBLISHER.Files into it. Every file must exist, run collect first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, publisher, err := newServices()
		if err != nil {
			return err
		}

		return publish(cmd.Context(), publisher)
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func publish(ctx context.Context, publisher service.PublisherService) error {
	report, err := publisher.Publish(ctx)
	if err != nil {
		log.WithError(err).Error("publish stopped")
		return err
	}

	failed := 0
	for _, u := range report.Uploads {
		if u.Err != nil {
			failed++
		}
	}

	log.WithFields(log.Fields{
		"repository":       report.Owner + "/" + report.Repository,
		"creationStatus":   report.RepositoryStatusCode,
		"filesUploaded":    len(report.Uploads) - failed,
		"filesNotUploaded": failed,
	}).Info("publish done")

	return nil
}
