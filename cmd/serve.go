package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/Scalingo/repos-languages/controller"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve repositories tables over HTTP",
	Long: `Serve starts an HTTP server on API.ListenPort. GET /repos/:owner collects the
table of the owner on demand and returns it as JSON, nothing is written on disk.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		collector, _, err := newServices()
		if err != nil {
			return err
		}

		apiController := controller.NewAPIController(collector)

		return serve(cmd.Context(), newRouter(apiController), cfg.API.ListenPort)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// setup server and define all routes
func newRouter(apiController controller.APIController) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Content-Type, Content-Length, Accept-Encoding, Host, accept, Origin, Cache-Control, X-Requested-With"},
			MaxAge:       12 * time.Hour,
		}),
	)

	api := router.Group("")
	{
		api.GET("/repos/:owner", apiController.GetRepositories)
	}

	return router
}

// serve blocks until ctx is cancelled, then gives 15 seconds to the running requests
func serve(ctx context.Context, handler http.Handler, port string) error {
	server := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	errs := make(chan error, 1)

	// start with configuration
	go func() {
		log.Info("server listening on port " + port)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("error while starting server")
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Info("SIGINT, SIGTERM received, will shut down server ...")

	// create context with 15 seconds timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		return err
	}

	log.Info("Application stopped gracefully !")
	return nil
}
