package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/linesmerrill/wildlife-watch-api/api"
	"github.com/linesmerrill/wildlife-watch-api/models"
	"github.com/linesmerrill/wildlife-watch-api/reporting"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// inbound message types
const (
	msgSelectCategory = "selectCategory"
	msgSelectLocation = "selectLocation"
	msgSubmit         = "submit"
	msgRefresh        = "refresh"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// browsers are gated by the client key instead
		return true
	},
}

type viewCommand struct {
	Type      string   `json:"type"`
	Category  string   `json:"category,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type viewMessage struct {
	Type string              `json:"type"`
	Data reporting.ViewState `json:"data"`
}

// Views runs one reporting controller per websocket connection
type Views struct {
	store  reporting.ReportStore
	window int

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewViews creates the websocket endpoint for reporting views over s
func NewViews(s reporting.ReportStore, window int) *Views {
	ctx, cancel := context.WithCancel(context.Background())
	return &Views{store: s, window: window, ctx: ctx, cancel: cancel}
}

// Close ends every open view and waits for their teardown. New connections
// are refused afterwards.
func (v *Views) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
	v.cancel()
	v.wg.Wait()
}

func (v *Views) acquire() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return false
	}
	v.wg.Add(1)
	return true
}

// ServeWS upgrades the request and serves a reporting view until either side
// goes away.
func (v *Views) ServeWS(w http.ResponseWriter, r *http.Request) {
	if !v.acquire() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	defer v.wg.Done()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade failed", "error", err)
		return
	}
	viewID := uuid.NewString()
	zap.S().Infow("reporting view opened",
		"viewId", viewID,
		"requestId", api.RequestID(r.Context()),
		"remote", r.RemoteAddr)

	err = v.serve(conn)
	if err != nil && !errors.Is(err, context.Canceled) {
		zap.S().Warnw("reporting view ended", "viewId", viewID, "error", err)
		return
	}
	zap.S().Infow("reporting view closed", "viewId", viewID)
}

func (v *Views) serve(conn *websocket.Conn) error {
	outbox := make(chan reporting.ViewState, 1)
	ctrl := reporting.New(v.store, reporting.Options{
		Window:   v.window,
		OnChange: func(s reporting.ViewState) { offer(outbox, s) },
	})
	defer ctrl.Close()

	g, ctx := errgroup.WithContext(v.ctx)
	g.Go(func() error {
		return ctrl.Run(ctx)
	})
	g.Go(func() error {
		return writeLoop(ctx, conn, outbox)
	})
	g.Go(func() error {
		return readLoop(ctx, conn, ctrl)
	})
	return g.Wait()
}

// offer keeps only the newest state; a slow client skips intermediate ones.
// It has a single caller, the controller's Run goroutine.
func offer(outbox chan reporting.ViewState, s reporting.ViewState) {
	for {
		select {
		case outbox <- s:
			return
		default:
		}
		select {
		case <-outbox:
		default:
		}
	}
}

// writeLoop owns every write on conn and closes it on the way out, which
// unblocks readLoop.
func writeLoop(ctx context.Context, conn *websocket.Conn, outbox <-chan reporting.ViewState) error {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return ctx.Err()
		case state := <-outbox:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(viewMessage{Type: "state", Data: state}); err != nil {
				return err
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

func readLoop(ctx context.Context, conn *websocket.Conn, ctrl *reporting.Controller) error {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				// ends the group so the controller is torn down
				return context.Canceled
			}
			return err
		}

		var cmd viewCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			zap.S().Warnw("ignoring malformed view command", "error", err)
			continue
		}
		if err := dispatchCommand(ctrl, cmd); err != nil {
			if errors.Is(err, reporting.ErrClosed) {
				return context.Canceled
			}
			zap.S().Warnw("ignoring view command", "type", cmd.Type, "error", err)
		}
	}
}

var errUnknownCommand = errors.New("unknown command type")

func dispatchCommand(ctrl *reporting.Controller, cmd viewCommand) error {
	switch cmd.Type {
	case msgSelectCategory:
		// validation happens in the controller so the view can show an alert
		return ctrl.SelectCategory(models.Category(cmd.Category))
	case msgSelectLocation:
		if cmd.Latitude == nil || cmd.Longitude == nil {
			return models.ErrInvalidLocation
		}
		return ctrl.SelectLocation(models.Location{Latitude: *cmd.Latitude, Longitude: *cmd.Longitude})
	case msgSubmit:
		return ctrl.Submit()
	case msgRefresh:
		return ctrl.Refresh()
	}
	return errUnknownCommand
}
