package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
)

// ChangeEvent notifies stream subscribers that a document gained a new
// revision and from which path the mutation came.
type ChangeEvent struct {
	Name     string `json:"name"`
	Revision string `json:"revision"`
	Source   string `json:"source"` // "save", "event" or "toggle"
	Time     int64  `json:"time"`
}

// Hub fans document change events out to SSE subscribers, keyed by document
// name. Slow subscribers drop events rather than block the writer.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan ChangeEvent]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan ChangeEvent]struct{})}
}

func (h *Hub) subscribe(name string) chan ChangeEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan ChangeEvent, 10)
	if h.subs[name] == nil {
		h.subs[name] = make(map[chan ChangeEvent]struct{})
	}
	h.subs[name][ch] = struct{}{}
	return ch
}

func (h *Hub) unsubscribe(name string, ch chan ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.subs[name]; ok {
		delete(subs, ch)
		if len(subs) == 0 {
			delete(h.subs, name)
		}
	}
}

// Broadcast delivers ev to every subscriber of the document.
func (h *Hub) Broadcast(name string, ev ChangeEvent) {
	h.mu.Lock()
	subs := h.subs[name]
	h.mu.Unlock()
	for ch := range subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func streamChanges(hub *Hub, auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if token := c.QueryParam("token"); header == "" && token != "" {
			header = "Bearer " + token
		}
		if _, err := auth.UserIDFromAuthHeader(header); err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		name := c.QueryParam("name")
		if name == "" {
			return c.String(http.StatusBadRequest, "missing document name")
		}

		c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
		c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
		c.Response().WriteHeader(http.StatusOK)
		flusher, ok := c.Response().Writer.(http.Flusher)
		if !ok {
			return c.String(http.StatusInternalServerError, "stream unsupported")
		}
		// Write an initial comment to ensure headers are flushed to the client.
		if _, err := c.Response().Write([]byte(":ok\n\n")); err != nil {
			return nil
		}
		flusher.Flush()

		ch := hub.subscribe(name)
		defer hub.unsubscribe(name, ch)
		ctx := c.Request().Context()
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case ev := <-ch:
				data, _ := sonic.Marshal(ev)
				if _, err := c.Response().Write([]byte("data: ")); err != nil {
					return nil
				}
				if _, err := c.Response().Write(data); err != nil {
					return nil
				}
				if _, err := c.Response().Write([]byte("\n\n")); err != nil {
					return nil
				}
				flusher.Flush()
			case <-ticker.C:
				// Heartbeat comment keeps proxies from closing the stream.
				if _, err := c.Response().Write([]byte(":keepalive\n\n")); err != nil {
					return nil
				}
				flusher.Flush()
			case <-ctx.Done():
				return nil
			}
		}
	}
}
