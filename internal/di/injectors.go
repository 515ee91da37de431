//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"ytwatch/internal"
	"ytwatch/internal/controllers"
	"ytwatch/internal/notify"
	"ytwatch/internal/providers"
	"ytwatch/internal/scheduler"
	"ytwatch/internal/services"
	"ytwatch/internal/store"
	"ytwatch/internal/structures"
	"ytwatch/internal/youtube"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewKVProvider,

		store.NewZstdCompressor,
		store.NewFileManager,

		youtube.NewClient,
		youtube.NewScraper,
		youtube.NewLister,
		youtube.NewResolver,
		wire.Bind(new(youtube.LookupAPI), new(*youtube.Client)),
		wire.Bind(new(youtube.PageScraper), new(*youtube.Scraper)),

		notify.NewNotifier,
		notify.NewMailer,

		services.NewNotificationGate,
		services.NewDispatcher,
		wire.Bind(new(services.VideoNotifier), new(*notify.Mailer)),
		wire.Bind(new(services.ChannelResolver), new(*youtube.Resolver)),
		wire.Bind(new(services.UploadLister), new(*youtube.Lister)),
		wire.Bind(new(services.NotificationGateInterface), new(*services.NotificationGate)),
		wire.Bind(new(services.DispatcherInterface), new(*services.Dispatcher)),

		scheduler.NewScheduler,
		controllers.NewPollController,
		controllers.NewHealthController,
		wire.Bind(new(controllers.TestMailer), new(*notify.Mailer)),
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}
