package notifier

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/fieldrover/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultSocketIOEvent is the event name used when none is configured.
const DefaultSocketIOEvent = "location"

// connectTimeout bounds the initial handshake with the telemetry endpoint.
const connectTimeout = 15 * time.Second

// SocketIOConfig describes the telemetry endpoint.
type SocketIOConfig struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
}

// SocketIOReporter emits every report as a socket.io event.
type SocketIOReporter struct {
	event string
	send  func(event string, payload map[string]any)
	close func()
}

// DialSocketIO connects to the telemetry endpoint and returns a reporter
// bound to it. The underlying manager reconnects on its own after the first
// successful handshake.
func DialSocketIO(ctx context.Context, cfg SocketIOConfig) (*SocketIOReporter, error) {
	logger := ctxlog.FromContext(ctx).With("reporter", "socketio", "url", cfg.URL)
	logger.Info("Connecting to telemetry endpoint...")

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse telemetry URL: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connected := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(cfg.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Telemetry connected", "sid", io.Id())
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		var err error = fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connected <- err
	})

	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(connectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", connectTimeout)
	}

	event := cfg.Event
	if event == "" {
		event = DefaultSocketIOEvent
	}
	return newSocketIOReporter(
		event,
		func(ev string, payload map[string]any) { io.Emit(ev, payload) },
		func() { io.Disconnect() },
	), nil
}

func newSocketIOReporter(event string, send func(string, map[string]any), closeFn func()) *SocketIOReporter {
	return &SocketIOReporter{event: event, send: send, close: closeFn}
}

// Report implements Reporter.
func (r *SocketIOReporter) Report(_ context.Context, rep Report) error {
	r.send(r.event, locationPayload(rep))
	return nil
}

// Close disconnects from the endpoint.
func (r *SocketIOReporter) Close() error {
	if r.close != nil {
		r.close()
	}
	return nil
}

func locationPayload(rep Report) map[string]any {
	labels := rep.Labels
	if labels == nil {
		labels = []string{}
	}
	return map[string]any{
		"seq":    rep.Seq,
		"x":      rep.Node.X,
		"y":      rep.Node.Y,
		"labels": labels,
		"at":     rep.At.UTC().Format(time.RFC3339Nano),
	}
}
