//go:build wireinject
// +build wireinject

package di

import (
	"TrenchScan/pkg/config"
	"TrenchScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,
		ProvideTelegramClient,

		// Repositories
		ProvideTransport,
		ProvideAnalyzer,
		ProvideEventPublisher,

		// Rendering and flow
		ProvideComposer,
		ProvideSequencer,
		ProvideBot,
		ProvidePoller,

		// HTTP surface
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
