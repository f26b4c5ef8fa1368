// Package websockets provides a JSON-RPC 2.0 connection with subscription
// support, used for the extrinsic status watch stream.
package websockets

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/polkabridge/substrate-client/log"
	"github.com/polkabridge/substrate-client/rpc/client"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Time allowed to connect to server.
	dialTimeout = 5 * time.Second

	// Per subscription notification buffer. A consumer lagging this far
	// behind loses the subscription.
	notificationBuffer = 64
)

var (
	// ErrConnectionClosed the connection terminated before the call completed
	ErrConnectionClosed = errors.New("websocket connection closed")
	// ErrSubscriptionDropped the notification buffer overflowed
	ErrSubscriptionDropped = errors.New("subscription dropped on overflow")
)

// Remote is a JSON-RPC session over a single websocket connection.
// Calls and subscriptions may be issued concurrently; notifications of one
// subscription are delivered in the order the node emits them.
type Remote struct {
	ws        *websocket.Conn
	outgoing  chan *pendingCall
	control   chan string
	quit      chan struct{}
	finished  chan struct{}
	closeOnce sync.Once
}

type pendingCall struct {
	body *client.RequestBody
	sub  *Subscription
	resp chan *callResult
}

type callResult struct {
	result json.RawMessage
	err    error
}

// Subscription is a live notification stream. The channel returned by
// Notifications is closed when the subscription ends for any reason;
// a close without Unsubscribe means the stream was lost.
type Subscription struct {
	remote      *Remote
	unsubMethod string
	rawID       json.RawMessage
	key         string
	ch          chan json.RawMessage
	unsubOnce   sync.Once
}

// Notifications returns the in-order notification channel
func (s *Subscription) Notifications() <-chan json.RawMessage {
	return s.ch
}

// Unsubscribe releases the subscription on the node and locally.
// It never affects anything already submitted through the stream.
func (s *Subscription) Unsubscribe() {
	s.unsubOnce.Do(func() {
		var idParam interface{}
		if err := json.Unmarshal(s.rawID, &idParam); err != nil {
			idParam = s.key
		}
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		var ok bool
		if err := s.remote.Call(ctx, &ok, s.unsubMethod, idParam); err != nil {
			log.Trace("unsubscribe call failed", "method", s.unsubMethod, "err", err)
		}
		select {
		case s.remote.control <- s.key:
		case <-s.remote.finished:
		}
	})
}

// NewRemote connects to the node websocket endpoint.
// To close the connection, use Close().
func NewRemote(endpoint string) (*Remote, error) {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	ws, _, err := dialer.Dial(endpoint, nil)
	if err != nil {
		return nil, err
	}
	r := &Remote{
		ws:       ws,
		outgoing: make(chan *pendingCall, 10),
		control:  make(chan string, 10),
		quit:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	go r.run()
	log.Info("websocket connected", "endpoint", endpoint)
	return r, nil
}

// Close shuts down the session. Pending calls fail with
// ErrConnectionClosed and subscription channels are closed.
func (r *Remote) Close() {
	r.closeOnce.Do(func() {
		close(r.quit)
	})
	<-r.finished
}

// Call performs a request and unmarshals its result into result (unless nil)
func (r *Remote) Call(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	raw, err := r.roundTrip(ctx, method, nil, params)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return json.Unmarshal(raw, result)
}

// Subscribe starts a node side subscription; unsubMethod is the matching
// release method (e.g. author_unwatchExtrinsic).
func (r *Remote) Subscribe(ctx context.Context, method, unsubMethod string, params ...interface{}) (*Subscription, error) {
	sub := &Subscription{
		remote:      r,
		unsubMethod: unsubMethod,
		ch:          make(chan json.RawMessage, notificationBuffer),
	}
	raw, err := r.roundTrip(ctx, method, sub, params)
	if err != nil {
		return nil, err
	}
	sub.rawID = raw
	sub.key = subscriptionKey(raw)
	return sub, nil
}

func (r *Remote) roundTrip(ctx context.Context, method string, sub *Subscription, params []interface{}) (json.RawMessage, error) {
	if params == nil {
		params = []interface{}{}
	}
	call := &pendingCall{
		body: &client.RequestBody{Version: "2.0", Method: method, Params: params},
		sub:  sub,
		resp: make(chan *callResult, 1),
	}
	select {
	case r.outgoing <- call:
	case <-r.finished:
		return nil, ErrConnectionClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case res := <-call.resp:
		return res.result, res.err
	case <-r.finished:
		// the session ended; prefer a result that raced the shutdown
		select {
		case res := <-call.resp:
			return res.result, res.err
		default:
		}
		return nil, ErrConnectionClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type inboundMessage struct {
	ID     *int                `json:"id,omitempty"`
	Result json.RawMessage     `json:"result,omitempty"`
	Error  *client.JSONError   `json:"error,omitempty"`
	Method string              `json:"method,omitempty"`
	Params *notificationParams `json:"params,omitempty"`
}

type notificationParams struct {
	Subscription json.RawMessage `json:"subscription"`
	Result       json.RawMessage `json:"result"`
}

// subscription ids may be strings or numbers depending on node version
func subscriptionKey(raw json.RawMessage) string {
	return strings.Trim(string(raw), `"`)
}

// run owns all connection state until the session ends
func (r *Remote) run() {
	outbound := make(chan interface{})
	writerDone := make(chan struct{})
	inbound := make(chan []byte)
	pending := make(map[int]*pendingCall)
	subs := make(map[string]*Subscription)

	defer func() {
		close(outbound) // shuts down the writePump which closes the conn
		for _, call := range pending {
			call.resp <- &callResult{err: ErrConnectionClosed}
		}
		for _, sub := range subs {
			close(sub.ch)
		}
		close(r.finished)
		// block until the readPump has returned
		for range inbound {
		}
	}()

	go func() {
		defer close(writerDone)
		defer r.ws.Close()
		r.writePump(outbound)
	}()
	go func() {
		defer close(inbound)
		r.readPump(inbound)
	}()

	nextID := 1
	for {
		select {
		case <-r.quit:
			return

		case call := <-r.outgoing:
			call.body.ID = nextID
			pending[nextID] = call
			nextID++
			select {
			case outbound <- call.body:
			case <-writerDone:
				// writer died on a write error, the session is over
				return
			}

		case key := <-r.control:
			if sub, exist := subs[key]; exist {
				delete(subs, key)
				close(sub.ch)
			}

		case msg, ok := <-inbound:
			if !ok {
				// connection lost
				return
			}
			r.dispatch(msg, pending, subs)
		}
	}
}

func (r *Remote) dispatch(msg []byte, pending map[int]*pendingCall, subs map[string]*Subscription) {
	var in inboundMessage
	if err := json.Unmarshal(msg, &in); err != nil {
		log.Warn("unparsable websocket message", "err", err)
		return
	}
	switch {
	case in.ID != nil:
		call, exist := pending[*in.ID]
		if !exist {
			log.Trace("response for unknown request id", "id", *in.ID)
			return
		}
		delete(pending, *in.ID)
		if in.Error != nil {
			call.resp <- &callResult{err: in.Error}
			return
		}
		if call.sub != nil {
			// register before any notification for this id is dispatched
			subs[subscriptionKey(in.Result)] = call.sub
		}
		call.resp <- &callResult{result: in.Result}

	case in.Params != nil:
		key := subscriptionKey(in.Params.Subscription)
		sub, exist := subs[key]
		if !exist {
			log.Trace("notification for unknown subscription", "subscription", key)
			return
		}
		select {
		case sub.ch <- in.Params.Result:
		default:
			log.Warn("notification buffer overflow, dropping subscription", "subscription", key)
			delete(subs, key)
			close(sub.ch)
		}

	default:
		log.Trace("ignoring websocket message without id or params")
	}
}

func (r *Remote) writePump(outbound <-chan interface{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-outbound:
			_ = r.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = r.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := r.ws.WriteJSON(msg); err != nil {
				log.Trace("websocket write failed", "err", err)
				return
			}
		case <-ticker.C:
			_ = r.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := r.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (r *Remote) readPump(inbound chan<- []byte) {
	_ = r.ws.SetReadDeadline(time.Now().Add(pongWait))
	r.ws.SetPongHandler(func(string) error {
		return r.ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, msg, err := r.ws.ReadMessage()
		if err != nil {
			log.Trace("websocket read closed", "err", err)
			return
		}
		inbound <- msg
	}
}
