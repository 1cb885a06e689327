package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/selene-notes/selene/pkg/domain/model"
	"github.com/selene-notes/selene/pkg/service/relay"
	"github.com/selene-notes/selene/pkg/utils/logging"
)

// handleWebSocket upgrades the connection and bridges it to the relay hub.
// Inbound frames are note lifecycle events produced by the client; they are
// rebroadcast to every other viewer but not echoed back to the sender.
// Outbound frames come from the hub's per-client queue.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		logging.From(r.Context()).Warn("websocket accept failed", "error", err.Error())
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closed")

	client := s.hub.Register()
	defer s.hub.Unregister(client)

	ctx := r.Context()

	// Write loop. Ends when the client is unregistered or the connection
	// drops.
	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		for msg := range client.Messages() {
			if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}()

	s.readLoop(ctx, conn, client)

	// Unregister closes the outbound queue, which ends the write loop
	s.hub.Unregister(client)
	<-writeDone
	conn.Close(websocket.StatusNormalClosure, "done")
}

// readLoop parses inbound frames and rebroadcasts valid events. Malformed
// frames are dropped with a warning; the connection stays open.
func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, client *relay.Client) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		var ev model.NoteEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			logging.From(ctx).Warn("dropping malformed relay frame", "error", err.Error())
			continue
		}
		if ev.Type != model.NoteEventCreated && ev.Type != model.NoteEventDeleted {
			logging.From(ctx).Warn("dropping relay frame with unknown type", "type", string(ev.Type))
			continue
		}

		s.hub.Broadcast(ctx, client, ev)
	}
}
