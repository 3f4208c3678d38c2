// Package samsung talks to Samsung Frame TVs over their local REST API and the
// art app websocket channel.
package samsung

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cgddrd/samsung-frame-art/pkg/tv"
	"github.com/cgddrd/samsung-frame-art/util/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ArtError is an error event sent back by the art app.
type ArtError struct {
	Request string
	Code    string
}

func (e *ArtError) Error() string {
	return fmt.Sprintf("art app rejected %s request (error code %s)", e.Request, e.Code)
}

// Client implements tv.ArtTV for a Samsung Frame TV.
type Client struct {
	host       string
	name       string
	restURL    string
	artURL     string
	httpClient *http.Client
	dialer     *websocket.Dialer
	tokens     TokenStore
	timeout    time.Duration
	now        func() time.Time

	mu   sync.Mutex
	conn *websocket.Conn
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the client used for REST calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenStore sets where pairing tokens are kept.
func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithName sets the client name announced to the TV.
func WithName(name string) Option {
	return func(c *Client) { c.name = name }
}

// WithTimeout sets the wait bound used when a context has no deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRESTURL overrides the REST device info endpoint.
func WithRESTURL(u string) Option {
	return func(c *Client) { c.restURL = u }
}

// WithArtURL overrides the art channel websocket endpoint.
func WithArtURL(u string) Option {
	return func(c *Client) { c.artURL = u }
}

// NewClient creates a client for the TV at host (an IP address or host name).
// No connection is made until the first call.
func NewClient(host string, opts ...Option) *Client {
	c := &Client{
		host:       host,
		name:       DefaultClientName,
		restURL:    "http://" + net.JoinHostPort(host, RESTPort) + RESTPath,
		artURL:     "wss://" + net.JoinHostPort(host, ArtPort) + RESTPath + "channels/" + ArtAppChannel,
		httpClient: http.DefaultClient,
		dialer: &websocket.Dialer{
			HandshakeTimeout: DefaultTimeout,
			// The TV serves a self-signed certificate.
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
		},
		tokens:  FileTokenStore{},
		timeout: DefaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DeviceInfo queries the REST device description. Any failure is a *tv.ReachabilityError.
func (c *Client) DeviceInfo(ctx context.Context) (tv.DeviceInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.restURL, nil)
	if err != nil {
		return tv.DeviceInfo{}, &tv.ReachabilityError{Addr: c.host, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return tv.DeviceInfo{}, &tv.ReachabilityError{Addr: c.host, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return tv.DeviceInfo{}, &tv.ReachabilityError{Addr: c.host, Err: fmt.Errorf("device info returned status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return tv.DeviceInfo{}, &tv.ReachabilityError{Addr: c.host, Err: fmt.Errorf("reading device info: %w", err)}
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return tv.DeviceInfo{}, &tv.ReachabilityError{Addr: c.host, Err: fmt.Errorf("decoding device info: %w", err)}
	}
	device, ok := raw["device"].(map[string]any)
	if !ok {
		return tv.DeviceInfo{}, &tv.ReachabilityError{Addr: c.host, Err: errors.New("device info has no device object")}
	}

	return tv.DeviceInfo{
		ID:             stringField(device, "id"),
		Name:           stringField(device, "name"),
		ModelName:      stringField(device, "modelName"),
		PowerState:     stringField(device, "PowerState"),
		FrameTVSupport: stringField(device, "FrameTVSupport") == "true",
		Raw:            raw,
	}, nil
}

// ArtModeSupported reports whether the TV advertises Frame art mode.
func (c *Client) ArtModeSupported(ctx context.Context) (bool, error) {
	info, err := c.DeviceInfo(ctx)
	if err != nil {
		return false, err
	}
	return info.FrameTVSupport, nil
}

// IsOn reports whether the TV answers and its panel is powered. Older firmware
// has no PowerState field; answering at all counts as on there.
func (c *Client) IsOn(ctx context.Context) bool {
	info, err := c.DeviceInfo(ctx)
	if err != nil {
		log.Debugf("TV is not answering: %v", err)
		return false
	}
	return info.PowerState == "" || info.PowerState == "on"
}

// ArtModeActive reports whether art mode is currently showing.
func (c *Client) ArtModeActive(ctx context.Context) (bool, error) {
	ev, err := c.call(ctx, map[string]any{"request": "get_artmode_status"})
	if err != nil {
		return false, err
	}
	return ev.Value == "on", nil
}

// CurrentArtwork returns the description of the selected artwork.
func (c *Client) CurrentArtwork(ctx context.Context) (map[string]any, error) {
	ev, err := c.call(ctx, map[string]any{"request": "get_current_artwork"})
	if err != nil {
		return nil, err
	}
	return ev.fields, nil
}

// MatteList returns the matte styles the TV offers.
func (c *Client) MatteList(ctx context.Context) ([]map[string]any, error) {
	ev, err := c.call(ctx, map[string]any{"request": "get_matte_list"})
	if err != nil {
		return nil, err
	}
	return decodeList(ev.fields["matte_type_list"])
}

// FilterList returns the photo filters the TV offers.
func (c *Client) FilterList(ctx context.Context) ([]map[string]any, error) {
	ev, err := c.call(ctx, map[string]any{"request": "get_photo_filter_list"})
	if err != nil {
		return nil, err
	}
	return decodeList(ev.fields["filter_list"])
}

// Select makes contentID the current artwork. With show false the image is only
// selected and the screen is left alone. The TV does not answer this request.
func (c *Client) Select(ctx context.Context, contentID string, show bool) error {
	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	return c.send(ctx, conn, uuid.NewString(), map[string]any{
		"request":    "select_image",
		"content_id": contentID,
		"show":       show,
	})
}

// Close shuts the art channel if it is open.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	conn := c.conn
	c.conn = nil

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		c.now().Add(time.Second))
	return conn.Close()
}

// channelMessage is the envelope of every frame on the channel.
type channelMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// artEvent is the decoded data of a d2d_service_message.
type artEvent struct {
	Event       string
	ID          string
	RequestID   string
	Value       string
	ContentID   string
	ConnInfo    string
	ErrorCode   string
	RequestData string

	fields map[string]any
}

func (e artEvent) matches(id string) bool {
	return e.ID == id || e.RequestID == id
}

// connect opens the art channel once and reuses it for the rest of the run.
func (c *Client) connect(ctx context.Context) (*websocket.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return c.conn, nil
	}

	u, err := url.Parse(c.artURL)
	if err != nil {
		return nil, fmt.Errorf("invalid art channel URL: %w", err)
	}
	q := u.Query()
	q.Set("name", base64.StdEncoding.EncodeToString([]byte(c.name)))
	token, err := c.tokens.Load(c.host)
	if err != nil {
		log.Printf("failed to load TV token: %v", err)
	}
	if token != "" {
		q.Set("token", token)
	}
	u.RawQuery = q.Encode()

	conn, _, err := c.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, &tv.ReachabilityError{Addr: c.host, Err: fmt.Errorf("opening art channel: %w", err)}
	}

	if err := c.handshake(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	c.conn = conn
	return conn, nil
}

// handshake waits for the channel connect and ready events, saving any token handed out.
func (c *Client) handshake(ctx context.Context, conn *websocket.Conn) error {
	msg, err := c.read(ctx, conn)
	if err != nil {
		return fmt.Errorf("waiting for art channel connect: %w", err)
	}
	if msg.Event != eventChannelConnect {
		return fmt.Errorf("art channel refused connection: %s", msg.Event)
	}

	var connected struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(msg.Data, &connected); err == nil && connected.Token != "" {
		log.Debugf("received new TV token")
		if err := c.tokens.Save(c.host, connected.Token); err != nil {
			log.Printf("failed to save TV token: %v", err)
		}
	}

	for {
		msg, err := c.read(ctx, conn)
		if err != nil {
			return fmt.Errorf("waiting for art channel ready: %w", err)
		}
		if msg.Event == eventChannelReady {
			return nil
		}
		log.Debugf("ignoring %s before art channel ready", msg.Event)
	}
}

// call sends an art app request and waits for any answer carrying its id.
func (c *Client) call(ctx context.Context, body map[string]any) (artEvent, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return artEvent{}, err
	}
	id := uuid.NewString()
	if err := c.send(ctx, conn, id, body); err != nil {
		return artEvent{}, err
	}
	return c.wait(ctx, conn, id, "")
}

// send emits one art app request. The request body travels as a JSON string.
func (c *Client) send(ctx context.Context, conn *websocket.Conn, id string, body map[string]any) error {
	body["id"] = id
	body["request_id"] = id
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %v request: %w", body["request"], err)
	}

	msg := map[string]any{
		"method": methodEmit,
		"params": map[string]any{
			"event": eventArtAppRequest,
			"to":    "host",
			"data":  string(data),
		},
	}

	if err := conn.SetWriteDeadline(c.deadline(ctx)); err != nil {
		return err
	}
	log.Debugf("art request: %s", data)
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("sending %v request: %w", body["request"], err)
	}
	return nil
}

// wait reads until an art event for id arrives. With event set, only that event
// is accepted; events that carry no id at all also match then.
func (c *Client) wait(ctx context.Context, conn *websocket.Conn, id, event string) (artEvent, error) {
	for {
		msg, err := c.read(ctx, conn)
		if err != nil {
			return artEvent{}, err
		}
		if msg.Event != eventD2DMessage {
			log.Debugf("ignoring channel event %s", msg.Event)
			continue
		}

		ev, err := decodeArtEvent(msg.Data)
		if err != nil {
			return artEvent{}, err
		}

		switch {
		case ev.Event == artEventError && ev.matches(id):
			return artEvent{}, &ArtError{Request: requestName(ev.RequestData), Code: ev.ErrorCode}
		case event == "" && ev.matches(id):
			return ev, nil
		case event != "" && ev.Event == event && (ev.ID == "" || ev.matches(id)):
			return ev, nil
		}
		log.Debugf("ignoring art event %s", ev.Event)
	}
}

func (c *Client) read(ctx context.Context, conn *websocket.Conn) (channelMessage, error) {
	if err := ctx.Err(); err != nil {
		return channelMessage{}, err
	}
	if err := conn.SetReadDeadline(c.deadline(ctx)); err != nil {
		return channelMessage{}, err
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		return channelMessage{}, fmt.Errorf("reading art channel: %w", err)
	}

	var msg channelMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return channelMessage{}, fmt.Errorf("decoding art channel message: %w", err)
	}
	return msg, nil
}

func (c *Client) deadline(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	return c.now().Add(c.timeout)
}

// decodeArtEvent unpacks the JSON string carried in a d2d_service_message.
func decodeArtEvent(raw json.RawMessage) (artEvent, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return artEvent{}, fmt.Errorf("art event data is not a string: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(s), &fields); err != nil {
		return artEvent{}, fmt.Errorf("decoding art event: %w", err)
	}

	return artEvent{
		Event:       stringField(fields, "event"),
		ID:          stringField(fields, "id"),
		RequestID:   stringField(fields, "request_id"),
		Value:       stringField(fields, "value"),
		ContentID:   stringField(fields, "content_id"),
		ConnInfo:    stringField(fields, "conn_info"),
		ErrorCode:   stringField(fields, "error_code"),
		RequestData: stringField(fields, "request_data"),
		fields:      fields,
	}, nil
}

// stringField renders scalar fields as text; firmware sends some numbers quoted and some not.
func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64, bool:
		return fmt.Sprint(v)
	default:
		buf, _ := json.Marshal(v)
		return string(buf)
	}
}

// decodeList accepts both a JSON array and a JSON encoded string holding one.
func decodeList(v any) ([]map[string]any, error) {
	var buf []byte
	switch t := v.(type) {
	case nil:
		return nil, errors.New("list missing from art event")
	case string:
		buf = []byte(t)
	default:
		var err error
		if buf, err = json.Marshal(t); err != nil {
			return nil, err
		}
	}

	var list []map[string]any
	if err := json.Unmarshal(buf, &list); err != nil {
		return nil, fmt.Errorf("decoding list: %w", err)
	}
	return list, nil
}

func requestName(requestData string) string {
	var req struct {
		Request string `json:"request"`
	}
	if err := json.Unmarshal([]byte(requestData), &req); err != nil || req.Request == "" {
		return "art"
	}
	return req.Request
}
