//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/soulsync/soulsync/internal/bootstrap"
	"github.com/soulsync/soulsync/internal/domain/horoscope"
	"github.com/soulsync/soulsync/internal/domain/kundali"
	"github.com/soulsync/soulsync/internal/domain/places"
	"github.com/soulsync/soulsync/internal/infra/astrology"
	"github.com/soulsync/soulsync/internal/infra/config"
	"github.com/soulsync/soulsync/internal/infra/horoscope/astrotalk"
	"github.com/soulsync/soulsync/internal/infra/llm"
	"github.com/soulsync/soulsync/internal/infra/places/astrochat"
	httpiface "github.com/soulsync/soulsync/internal/interface/http"
	"github.com/soulsync/soulsync/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideHoroscopeConfig,
		provideKundaliConfig,
		provideAstrologyClient,
		provideHoroscopeFetcher,
		provideHoroscopeStore,
		providePlacesClient,
		provideRepository,
		provideInterpreter,
		provideChartArchive,
		places.NewService,
		horoscope.NewService,
		kundali.NewService,
		wire.Bind(new(places.Client), new(*astrochat.Client)),
		wire.Bind(new(horoscope.Fetcher), new(*astrotalk.Client)),
		wire.Bind(new(kundali.AstrologyClient), new(*astrology.Client)),
		wire.Bind(new(kundali.Interpreter), new(*llm.Generator)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
