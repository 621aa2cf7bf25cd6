package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dairymanager/dairy-api/routes"
	"github.com/dairymanager/dairy-api/services"
	"github.com/dairymanager/dairy-api/timeutil"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Migrate the database and serve the API on PORT.

Report archiving is enabled when AWS_S3_BUCKET is set.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := migrate(db, log); err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var store services.ObjectStore
	if cfg.ArchiveEnabled() {
		s3Store, err := services.NewS3Store(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		store = s3Store
		log.Info("Report archiving enabled", zap.String("bucket", cfg.AWSS3Bucket))
	}

	clock, err := timeutil.NewClock(cfg.BusinessTimezone)
	if err != nil {
		return err
	}
	router, err := routes.NewRouter(routes.Dependencies{
		Config: cfg,
		DB:     db,
		Logger: log,
		Clock:  clock,
		Store:  store,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server is running",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.GoEnv),
			zap.String("timezone", clock.Location().String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
