//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/a0929639992ca-hub/TokyoTraveler/internal/bootstrap"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/rates"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/receipt"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/transit"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/trip"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/infra/config"
	httpiface "github.com/a0929639992ca-hub/TokyoTraveler/internal/interface/http"
	"github.com/a0929639992ca-hub/TokyoTraveler/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideTransitConfig,
		provideReceiptConfig,
		provideRatesConfig,
		provideRateClient,
		provideRouteClient,
		provideVisionClient,
		provideTripStore,
		providePhotoStorage,
		trip.NewRepository,
		trip.NewService,
		transit.NewScheduler,
		receipt.NewService,
		rates.NewService,
		wire.Bind(new(transit.ScheduleSource), new(*trip.Service)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
