package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-cocktail-backend/internal/live"
	"github.com/tbourn/go-cocktail-backend/internal/services"
)

const liveWriteWait = 10 * time.Second

// RatingsLive godoc
// @ID          ratingsLive
// @Summary     Live rating histogram
// @Description Websocket. Sends the current histogram, then every new one after a vote.
// @Tags        Live
// @Param       id  path  string  true  "Recipe ID"
// @Success     101  {string}  string  "Switching Protocols"
// @Failure     503  {object}  handlers.ErrorResponse
// @Router      /ratings/{id}/live [get]
func (h *Handlers) RatingsLive(c *gin.Context) {
	id := c.Param("id")
	h.stream(c, live.RatingsTopic(id), func(ctx context.Context) (any, error) {
		return h.ratings.Get(ctx, id)
	})
}

// FavoritesLive godoc
// @ID          favoritesLive
// @Summary     Live favorites
// @Description Websocket. Sends the caller's favorite ids, then the full list after each change.
// @Tags        Live
// @Security    BearerAuth
// @Success     101  {string}  string  "Switching Protocols"
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     503  {object}  handlers.ErrorResponse
// @Router      /me/favorites/live [get]
func (h *Handlers) FavoritesLive(c *gin.Context) {
	sess := session(c)
	if !sess.Authenticated() {
		failErr(c, services.ErrUnauthenticated)
		return
	}
	h.stream(c, live.FavoritesTopic(sess.UserID), func(ctx context.Context) (any, error) {
		return h.favorites.Snapshot(ctx, sess)
	})
}

// stream subscribes to topic, upgrades, writes the initial state and then
// forwards every published payload until either side goes away. The
// subscription is taken before the initial read so no change in between is
// lost.
func (h *Handlers) stream(c *gin.Context, topic string, initial func(context.Context) (any, error)) {
	if h.live == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeLiveUnavailable, "live updates are not available")
		return
	}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	msgs, release, err := h.live.Subscribe(ctx, topic)
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusServiceUnavailable, ErrCodeLiveUnavailable, "live updates are not available")
		return
	}
	defer release()

	state, err := initial(ctx)
	if err != nil {
		failErr(c, err)
		return
	}
	first, err := json.Marshal(state)
	if err != nil {
		failErr(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the handshake error.
		return
	}
	defer conn.Close()

	log := zerolog.Ctx(c.Request.Context()).With().Str("topic", topic).Logger()
	log.Debug().Msg("live stream opened")

	// Clients never send data; the reader only notices the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeLive(conn, websocket.TextMessage, first); err != nil {
		return
	}

	ping := time.NewTicker(h.livePing)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(liveWriteWait))
			return
		case msg, open := <-msgs:
			if !open {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "stream closed"),
					time.Now().Add(liveWriteWait))
				return
			}
			if err := writeLive(conn, websocket.TextMessage, msg); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					log.Debug().Err(err).Msg("live write failed")
				}
				return
			}
		case <-ping.C:
			if err := writeLive(conn, websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeLive(conn *websocket.Conn, kind int, data []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
	return conn.WriteMessage(kind, data)
}
