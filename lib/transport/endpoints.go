package transport

import (
	"github.com/labstack/echo/v4"
	"github.com/relayhub/relayhub.go/controllers"
	"github.com/relayhub/relayhub.go/lib/service"
)

// RegisterRelayEndpoints wires the relay's HTTP surface: the websocket /
// NIP-11 root and a cached plain JSON info endpoint.
func RegisterRelayEndpoints(svc *service.RelayService, e *echo.Echo, logMw echo.MiddlewareFunc) {
	relayCtrl := controllers.NewRelayController(svc)
	infoCtrl := controllers.NewRelayInfoController(svc, relayCtrl)

	strictRateLimitMiddleware := CreateRateLimitMiddleware(svc.Config.StrictRateLimit, svc.Config.BurstRateLimit)

	e.GET("/", infoCtrl.Root)
	e.GET("/info", infoCtrl.RelayInfo, CreateCacheClient().Middleware(), strictRateLimitMiddleware, logMw)
}
