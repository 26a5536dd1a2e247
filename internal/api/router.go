package api

import (
	"net/http"

	_ "github.com/hiepntnaa/octra-pre-client/docs"
	"github.com/hiepntnaa/octra-pre-client/internal/handler"
	"github.com/hiepntnaa/octra-pre-client/internal/metrics"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(walletHandler *handler.WalletHandler, withMetrics bool) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	if withMetrics {
		mux.Handle("/metrics", metrics.Handler())
	}

	// Wallet endpoints
	mux.HandleFunc("/wallet/balance", walletHandler.GetBalance)
	mux.HandleFunc("/wallet/send", walletHandler.Send)
	mux.HandleFunc("/wallet/validate", walletHandler.Validate)

	return mux
}
