package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/api"
	"github.com/spigell/interview-coach/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only interviewer dashboard over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default is :8080)")
	viper.BindPFlag("serve.listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := setup("dashboard")

	store := storage.NewFileStore(config.StoreFile, logger)
	if err := api.New(store, logger).ListenAndServe(ctx, config.Serve.Listen); err != nil {
		logger.Fatal("serving dashboard", zap.Error(err))
	}

	logger.Info("exiting", zap.String("reason", "dashboard stopped"))
}
