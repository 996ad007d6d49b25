package lcu

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/mitchellh/mapstructure"

	"github.com/desertthunder/champr/internal/models"
	"github.com/desertthunder/champr/internal/state"
)

// CurrentChampionEvent is the websocket topic for champion select picks.
const CurrentChampionEvent = "OnJsonApiEvent_lol-champ-select_v1_current-champion"

// WAMP opcodes used by the client's event socket.
const (
	opSubscribe = 5
	opEvent     = 8
)

// ChampionSource polls the current champion pick.
type ChampionSource interface {
	CurrentChampion(ctx context.Context, auth models.AuthContext) (int64, error)
}

// Event is the payload of a client websocket event.
type Event struct {
	Data      any    `mapstructure:"data"`
	EventType string `mapstructure:"eventType"`
	URI       string `mapstructure:"uri"`
}

// ChampionWatcherOptions configures a [ChampionWatcher].
type ChampionWatcherOptions struct {
	PollInterval time.Duration
	Dialer       *websocket.Dialer
	Logger       *log.Logger
}

// ChampionWatcher publishes the champion picked in champion select.
type ChampionWatcher struct {
	store    *state.Store
	source   ChampionSource
	dialer   *websocket.Dialer
	interval time.Duration
	logger   *log.Logger
}

// NewChampionWatcher creates a ChampionWatcher.
func NewChampionWatcher(store *state.Store, source ChampionSource, opts ChampionWatcherOptions) *ChampionWatcher {
	w := &ChampionWatcher{
		store:    store,
		source:   source,
		dialer:   opts.Dialer,
		interval: opts.PollInterval,
		logger:   opts.Logger,
	}
	if w.interval <= 0 {
		w.interval = 2 * time.Second
	}
	if w.logger == nil {
		w.logger = log.Default()
	}
	if w.dialer == nil {
		w.dialer = &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
			TLSClientConfig:  &tls.Config{InsecureSkipVerify: true},
		}
	}
	return w
}

// Run follows champion select until ctx is done. While connected it polls
// once, then listens on the websocket; when the socket fails or closes it
// polls on the interval and retries the socket.
func (w *ChampionWatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		auth := w.store.Auth()
		if auth.Connected() {
			w.Poll(ctx, auth)
			if err := w.Listen(ctx, auth); err != nil && ctx.Err() == nil {
				w.logger.Debug("event socket unavailable", "err", err)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Poll asks the client for the current champion once and publishes it.
func (w *ChampionWatcher) Poll(ctx context.Context, auth models.AuthContext) {
	id, err := w.source.CurrentChampion(ctx, auth)
	if err != nil {
		w.logger.Debug("unable to poll current champion", "err", err)
		return
	}
	w.publish(auth, id)
}

// Listen subscribes to champion select events and publishes each pick. It
// returns when ctx is done, the socket fails, or the connection details change.
func (w *ChampionWatcher) Listen(ctx context.Context, auth models.AuthContext) error {
	u := "wss://" + auth.Host() + "/"
	if strings.HasPrefix(auth.BaseURL, "http://") {
		u = "ws://" + auth.Host() + "/"
	}

	header := http.Header{}
	header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("riot:"+auth.Password)))

	conn, resp, err := w.dialer.DialContext(ctx, u, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial %s: %w (status %d)", u, err, resp.StatusCode)
		}
		return fmt.Errorf("dial %s: %w", u, err)
	}
	defer conn.Close()

	if err := conn.WriteJSON([]any{opSubscribe, CurrentChampionEvent}); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	w.logger.Debug("subscribed", "event", CurrentChampionEvent)

	done := make(chan struct{})
	defer close(done)
	go w.closeOnChange(ctx, conn, auth, done)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read: %w", err)
		}

		ev, ok, err := DecodeEvent(msg)
		if err != nil {
			w.logger.Warn("bad event", "err", err)
			continue
		}
		if !ok {
			continue
		}

		id, err := ChampionFromEvent(ev)
		if err != nil {
			w.logger.Warn("bad champion event", "err", err)
			continue
		}
		w.publish(auth, id)
	}
}

func (w *ChampionWatcher) closeOnChange(ctx context.Context, conn *websocket.Conn, auth models.AuthContext, done <-chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			conn.Close()
			return
		case <-ticker.C:
			if w.store.Auth() != auth {
				conn.Close()
				return
			}
		}
	}
}

// publish drops results for a connection that is no longer current.
func (w *ChampionWatcher) publish(auth models.AuthContext, id int64) {
	if w.store.Auth() != auth {
		return
	}
	if w.store.Snapshot().CurrentChampion() == max(id, 0) {
		return
	}
	w.logger.Debug("champion changed", "id", id)
	w.store.SetChampion(id)
}

// DecodeEvent parses a websocket frame. ok is false for frames that are not
// current champion events.
func DecodeEvent(msg []byte) (Event, bool, error) {
	var frame []any
	if err := json.Unmarshal(msg, &frame); err != nil {
		return Event{}, false, fmt.Errorf("decode frame: %w", err)
	}
	if len(frame) != 3 {
		return Event{}, false, nil
	}
	if op, _ := frame[0].(float64); op != opEvent {
		return Event{}, false, nil
	}
	if name, _ := frame[1].(string); name != CurrentChampionEvent {
		return Event{}, false, nil
	}

	var ev Event
	if err := mapstructure.Decode(frame[2], &ev); err != nil {
		return Event{}, false, fmt.Errorf("decode payload: %w", err)
	}
	return ev, true, nil
}

// ChampionFromEvent returns the champion id an event carries. Delete events
// and empty payloads mean nothing is picked.
func ChampionFromEvent(ev Event) (int64, error) {
	if ev.EventType == "Delete" || ev.Data == nil {
		return 0, nil
	}

	var id int64
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{WeaklyTypedInput: true, Result: &id})
	if err != nil {
		return 0, err
	}
	if err := dec.Decode(ev.Data); err != nil {
		return 0, fmt.Errorf("champion id: %w", err)
	}
	return id, nil
}
