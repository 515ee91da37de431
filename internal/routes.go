package internal

import (
	"net/http"
	"ytwatch/internal/controllers"
	"ytwatch/internal/providers"
	"ytwatch/internal/structures"
)

func InitRoutes(pollController *controllers.PollController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Any("/check-channels", http.HandlerFunc(pollController.CheckChannels))
	routers.Get("/videos", http.HandlerFunc(pollController.Videos))
	routers.Post("/test-email", http.HandlerFunc(pollController.TestEmail))
	return routers
}
