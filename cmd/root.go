// Package cmd defines the command line of repos-languages.
package cmd

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/Scalingo/repos-languages/config"
	"github.com/Scalingo/repos-languages/logger"
	"github.com/Scalingo/repos-languages/service"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool

	// loaded once by the root command before any subcommand runs
	cfg *config.Config

	// replaced in tests by a mocked github http client
	githubHTTPClient *http.Client
)

var rootCmd = &cobra.Command{
	Use:   "repos-languages",
	Short: "Collect the primary languages of GitHub accounts repositories",
	Long: `repos-languages lists the public repositories of GitHub accounts, writes their
name and primary language to one CSV file per account, and publishes those
files to a new repository of the authenticated user.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile)
		if err != nil {
			log.WithError(err).Error("unable to load configuration")
			return err
		}

		// configure logger
		logger.Setup(*loaded, verbose)

		if err := loaded.Validate(); err != nil {
			return err
		}

		cfg = loaded
		return nil
	},
}

// Execute runs the command line, SIGINT and SIGTERM cancel the running requests
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	cobra.CheckErr(err)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file (default: config/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logs")
}

// newServices builds both services around the same github client and pacer
func newServices() (service.CollectorService, service.PublisherService, error) {
	githubClient, err := service.NewGithubClient(cfg.Github, githubHTTPClient)
	if err != nil {
		return nil, nil, err
	}

	pacer := service.NewPacer(cfg.Github)

	return service.NewCollectorService(*cfg, githubClient, pacer),
		service.NewPublisherService(*cfg, githubClient, pacer),
		nil
}
