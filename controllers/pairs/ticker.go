package pairs

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"namestory-backend/models/pair"
	"namestory-backend/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser client connects cross-origin from the app host; CORS for
	// the REST routes is handled separately.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type tickerFrame struct {
	Pair   pair.PairedAsset `json:"pair"`
	Stats  services.Stats   `json:"stats"`
	SentAt time.Time        `json:"sentAt"`
}

// Ticker streams trade-log snapshots for one pair over a websocket. It
// replaces the terminal's HTTP polling loop: one frame immediately on
// connect, then one per interval, until the client goes away.
func (h *Handler) Ticker(w http.ResponseWriter, r *http.Request) {
	id, ok := pairID(r)
	if !ok {
		http.Error(w, "Invalid pair ID", http.StatusBadRequest)
		return
	}

	if _, err := h.pairing.GetPair(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "pair_id", id, "error", err)
		return
	}
	defer conn.Close()

	// Reads only serve to detect the peer closing.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.tickerInterval())
	defer ticker.Stop()

	h.log.Info("ticker subscribed", "pair_id", id)

	if err := h.sendFrame(conn, id); err != nil {
		return
	}
	for {
		select {
		case <-done:
			h.log.Info("ticker unsubscribed", "pair_id", id)
			return
		case <-ticker.C:
			if err := h.sendFrame(conn, id); err != nil {
				h.log.Info("ticker closed", "pair_id", id)
				return
			}
		}
	}
}

func (h *Handler) sendFrame(conn *websocket.Conn, id uint) error {
	ctx := context.Background()
	asset, err := h.pairing.GetPair(ctx, id)
	if err != nil {
		return err
	}
	stats, err := h.pairing.PairStats(ctx, id)
	if err != nil {
		return err
	}
	return conn.WriteJSON(tickerFrame{
		Pair:   asset,
		Stats:  stats,
		SentAt: time.Now().UTC(),
	})
}
