package devtools

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/weave-ui/weave/pkg/component"
)

// DecodeLifecycle decodes one /stream frame.
func DecodeLifecycle(frame []byte) (component.Lifecycle, error) {
	var ev component.Lifecycle
	err := msgpack.Unmarshal(frame, &ev)
	return ev, err
}

func (i *Inspector) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := i.upgrader.Upgrade(w, r, nil)
	if err != nil {
		i.logger.Warn("stream upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	events := make(chan component.Lifecycle, i.streamBuffer)
	cancel := i.app.Observe(func(ev component.Lifecycle) {
		select {
		case events <- ev:
		default:
			i.logger.Warn("stream buffer full, dropping lifecycle event", "id", ev.ID, "event", ev.Event)
		}
	})
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err,
					websocket.CloseGoingAway,
					websocket.CloseAbnormalClosure,
					websocket.CloseNormalClosure) {
					i.logger.Error("stream read error", "error", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case ev := <-events:
			frame, err := msgpack.Marshal(&ev)
			if err != nil {
				i.logger.Error("stream encode error", "error", err)
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(i.writeTimeout))
			if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				i.logger.Debug("stream write failed", "error", err)
				return
			}
		}
	}
}
