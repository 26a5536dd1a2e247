package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hiepntnaa/octra-pre-client/internal/api"
	"github.com/hiepntnaa/octra-pre-client/internal/graceful"
	"github.com/hiepntnaa/octra-pre-client/internal/handler"
	"github.com/hiepntnaa/octra-pre-client/octra"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local wallet API",
	Long:  "Serves /wallet/balance, /wallet/send, /swagger/ and /metrics on PORT for the loaded wallet.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession()
		if err != nil {
			return err
		}
		defer session.Close()

		payer := octra.NewPayer(session, cfg.PayCooldownDuration())
		router := api.SetupRouter(handler.NewSessionHandler(session, payer), cfg.MetricsEnabled)

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, cancel := graceful.WithCancelOnSignal(context.Background(), logger)
		defer cancel()

		errCh := make(chan error, 1)
		go func() {
			logger.WithField("address", session.Address()).Infof("listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
