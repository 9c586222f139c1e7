package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/nbd-wtf/go-nostr"
	"github.com/relayhub/relayhub.go/lib/responses"
	"github.com/relayhub/relayhub.go/lib/service"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// RelayController : RelayController struct
type RelayController struct {
	svc *service.RelayService
}

func NewRelayController(svc *service.RelayService) *RelayController {
	return &RelayController{svc: svc}
}

// StreamEvents upgrades the connection and runs the relay protocol on it:
// EVENT/REQ/CLOSE in, OK/EVENT/EOSE/NOTICE out.
func (controller *RelayController) StreamEvents(c echo.Context) error {
	upgrader := websocket.Upgrader{}
	upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	client := service.NewClient(controller.svc.Config.ClientQueueSize)
	defer controller.svc.HandleDisconnect(client)

	// single writer: the read loop below only ever enqueues
	go controller.writePump(ws, client)

	ctx := c.Request().Context()
	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			return nil
		}
		controller.handleMessage(ctx, client, msg)
	}
}

func (controller *RelayController) writePump(ws *websocket.Conn, client *service.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-client.Done():
			return
		case msg := <-client.Outbound():
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteJSON(msg); err != nil {
				controller.svc.Logger.Error(err)
				client.Close()
				return
			}
		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				client.Close()
				return
			}
		}
	}
}

// handleMessage parses one inbound frame and routes it. Anything that does
// not parse into a known message produces a NOTICE and changes nothing.
func (controller *RelayController) handleMessage(ctx context.Context, client *service.Client, msg []byte) {
	envelope := nostr.ParseMessage(msg)
	if envelope == nil {
		client.Enqueue(responses.NoticeMessage("error: could not parse message"))
		return
	}

	switch env := envelope.(type) {
	case *nostr.EventEnvelope:
		accepted, message := controller.svc.HandleEventMessage(ctx, &env.Event)
		client.Enqueue(responses.OkMessage(env.Event.ID, accepted, message))
	case *nostr.ReqEnvelope:
		if env.SubscriptionID == "" {
			client.Enqueue(responses.NoticeMessage("error: subscription id is required"))
			return
		}
		controller.svc.HandleReq(ctx, client, env.SubscriptionID, env.Filters)
	case *nostr.CloseEnvelope:
		controller.svc.HandleCloseSubscription(client, string(*env))
	default:
		client.Enqueue(responses.NoticeMessage("error: unrecognized message type"))
	}
}
