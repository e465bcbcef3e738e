package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"whatsapp-archive-viewer/handlers"
	"whatsapp-archive-viewer/persistence"
	"whatsapp-archive-viewer/utils"
	"whatsapp-archive-viewer/viewer"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	// Carica la configurazione
	config, err := utils.LoadConfig("config.json")
	if err != nil {
		logger.Warn().Err(err).Msg("configurazione non trovata, uso i valori predefiniti")
		config = utils.DefaultConfig()
	}

	// Inizializza lo store degli archivi
	store, err := persistence.NewStore(config.Storage.DatabasePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("impossibile aprire lo store degli archivi")
	}
	defer store.Close()

	// Crea il controller che possiede lo stato dell'applicazione
	controller := viewer.NewController(store, logger)

	// Configura il router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	handlers.SetupAPIRoutes(router, controller, config.MaxArchiveBytes())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Server.Port),
		Handler: router,
	}

	// Avvia il server
	go func() {
		logger.Info().Int("port", config.Server.Port).Msg("server avviato")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("errore del server HTTP")
		}
	}()

	// Attendi il segnale di chiusura
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("chiusura in corso")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("chiusura del server non pulita")
	}

	// Rilascia i payload della sessione attiva
	controller.CloseSession()
}
