package api

import (
	"github.com/gorilla/websocket"
	"github.com/the-lightning-land/wifid/station"
	"net/http"
	"time"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

type getEventsEvent struct {
	Event   station.Broadcast `json:"event"`
	Dropped uint64            `json:"dropped"`
}

func (a *Api) handleGetEvents() http.HandlerFunc {
	upgrader := &websocket.Upgrader{}

	return func(w http.ResponseWriter, r *http.Request) {
		// attach before the handshake completes so no event after it is missed
		receiver := a.station.Subscribe()
		defer receiver.Cancel()

		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			a.log.Errorf("Could not upgrade events connection: %v", err)
			return
		}

		defer c.Close()

		closed := make(chan struct{})

		// read pump
		go func() {
			defer close(closed)

			c.SetReadLimit(512)
			_ = c.SetReadDeadline(time.Now().Add(pongWait))
			c.SetPongHandler(func(string) error {
				return c.SetReadDeadline(time.Now().Add(pongWait))
			})

			for {
				_, _, err := c.ReadMessage()
				if err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
						a.log.Errorf("unexpected websocket closure: %v", err)
					}
					return
				}
			}
		}()

		// write pump
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case b, ok := <-receiver.Events():
				_ = c.SetWriteDeadline(time.Now().Add(writeWait))

				if !ok {
					_ = c.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}

				err := c.WriteJSON(&getEventsEvent{
					Event:   b,
					Dropped: receiver.Dropped(),
				})
				if err != nil {
					return
				}
			case <-ticker.C:
				_ = c.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-closed:
				return
			}
		}
	}
}
