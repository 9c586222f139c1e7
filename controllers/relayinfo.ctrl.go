package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/relayhub/relayhub.go/lib/responses"
	"github.com/relayhub/relayhub.go/lib/service"
)

const (
	nostrJSONContentType = "application/nostr+json"
	softwareURL          = "https://github.com/relayhub/relayhub.go"
	softwareVersion      = "0.2.0"
)

// RelayInfoController : RelayInfoController struct
type RelayInfoController struct {
	svc   *service.RelayService
	relay *RelayController
}

func NewRelayInfoController(svc *service.RelayService, relay *RelayController) *RelayInfoController {
	return &RelayInfoController{svc: svc, relay: relay}
}

// Root multiplexes the relay's single endpoint: websocket upgrades run the
// relay protocol, nostr+json requests get the NIP-11 document, everything
// else gets a short landing page.
func (controller *RelayInfoController) Root(c echo.Context) error {
	if websocket.IsWebSocketUpgrade(c.Request()) {
		return controller.relay.StreamEvents(c)
	}
	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), nostrJSONContentType) {
		return controller.RelayInfo(c)
	}
	return c.String(http.StatusOK, fmt.Sprintf("%s: %s\nConnect a nostr client to ws://%s\n",
		controller.svc.Config.RelayName, controller.svc.Config.RelayDescription, controller.svc.Config.Host))
}

// RelayInfo : NIP-11 relay information document handler
func (controller *RelayInfoController) RelayInfo(c echo.Context) error {
	doc := responses.RelayInformationDocument{
		Name:          controller.svc.Config.RelayName,
		Description:   controller.svc.Config.RelayDescription,
		Pubkey:        controller.svc.Config.RelayPubkey,
		Contact:       controller.svc.Config.RelayContact,
		SupportedNIPs: []int{1, 9, 11},
		Software:      softwareURL,
		Version:       softwareVersion,
	}
	c.Response().Header().Set(echo.HeaderContentType, nostrJSONContentType)
	return c.JSON(http.StatusOK, doc)
}
