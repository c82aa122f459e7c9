//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/moonwatch/internal/bootstrap"
	"github.com/yanqian/moonwatch/internal/domain/moonview"
	"github.com/yanqian/moonwatch/internal/domain/session"
	"github.com/yanqian/moonwatch/internal/infra/astronomy/ipgeolocation"
	"github.com/yanqian/moonwatch/internal/infra/config"
	httpiface "github.com/yanqian/moonwatch/internal/interface/http"
)

func initializeApp(path config.Path) (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		provideLogger,
		provideAstronomyClient,
		provideSessionConfig,
		provideSessionStore,
		provideAssetResolver,
		session.NewIssuer,
		session.NewRegistry,
		wire.Bind(new(moonview.AstronomyClient), new(*ipgeolocation.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}

func initializeLookup(path config.Path) (*lookupRunner, error) {
	wire.Build(
		config.Load,
		provideCLILogger,
		provideLookupController,
		newLookupRunner,
	)
	return nil, nil
}
