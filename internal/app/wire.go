//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"minutes/internal/api/server"
	"minutes/internal/config"
)

// InitializeApplication wires the full service graph from the environment.
func InitializeApplication(ctx context.Context) (*Application, func(), error) {
	wire.Build(
		config.Load,
		provideZapLogger,
		provideSlogLogger,
		provideRegistry,
		provideMetrics,
		provideStores,
		provideHostedProvider,
		provideChunkedFallback,
		provideSummarizer,
		providePipeline,
		provideDAO,
		provideExportWriter,
		provideServiceContainer,
		provideServerConfig,
		server.NewServer,
		newApplication,
	)
	return nil, nil, nil
}
