package substrate

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/polkabridge/substrate-client/common"
	"github.com/polkabridge/substrate-client/common/hexutil"
	"github.com/polkabridge/substrate-client/params"
	"github.com/polkabridge/substrate-client/rpc/client"
	"github.com/polkabridge/substrate-client/rpc/websockets"
)

// RPCGateway talks to a node through its websocket endpoint for
// subscriptions and its http endpoints for queries, trying each http
// gateway in turn on failure.
type RPCGateway struct {
	remote   *websockets.Remote
	httpURLs []string
}

var _ Gateway = (*RPCGateway)(nil)

// NewRPCGateway connects to the endpoints in the loaded config
func NewRPCGateway() (*RPCGateway, error) {
	gatewayCfg := params.GetGatewayConfig()
	if gatewayCfg == nil {
		return nil, errors.New("gateway endpoints not configured")
	}
	remote, err := websockets.NewRemote(gatewayCfg.WSEndpoint)
	if err != nil {
		return nil, err
	}
	return &RPCGateway{
		remote:   remote,
		httpURLs: gatewayCfg.HTTPEndpoints,
	}, nil
}

// Close releases the websocket session
func (g *RPCGateway) Close() {
	g.remote.Close()
}

// watchStream adapts a websocket subscription to the status stream
type watchStream struct {
	sub *websockets.Subscription
}

func (w watchStream) Statuses() <-chan json.RawMessage { return w.sub.Notifications() }
func (w watchStream) Unsubscribe()                     { w.sub.Unsubscribe() }

// SubmitAndWatchExtrinsic implements Gateway
func (g *RPCGateway) SubmitAndWatchExtrinsic(ctx context.Context, extrinsic hexutil.Bytes) (WatchSubscription, error) {
	sub, err := g.remote.Subscribe(ctx,
		"author_submitAndWatchExtrinsic", "author_unwatchExtrinsic", extrinsic.String())
	if err != nil {
		return nil, wrapRPCQueryError(err, "author_submitAndWatchExtrinsic")
	}
	return watchStream{sub: sub}, nil
}

// BlockExtrinsics implements Gateway
func (g *RPCGateway) BlockExtrinsics(ctx context.Context, blockHash common.Hash) ([]hexutil.Bytes, error) {
	var result *struct {
		Block struct {
			Extrinsics []hexutil.Bytes `json:"extrinsics"`
		} `json:"block"`
	}
	err := g.post(ctx, &result, "chain_getBlock", blockHash.String())
	if err != nil {
		return nil, wrapRPCQueryError(err, "chain_getBlock")
	}
	if result == nil {
		return nil, wrapRPCQueryError(nil, "chain_getBlock")
	}
	return result.Block.Extrinsics, nil
}

// StorageGet implements Gateway
func (g *RPCGateway) StorageGet(ctx context.Context, key hexutil.Bytes, at *common.Hash) (hexutil.Bytes, error) {
	args := []interface{}{key.String()}
	if at != nil {
		args = append(args, at.String())
	}
	var result *hexutil.Bytes
	err := g.post(ctx, &result, "state_getStorage", args...)
	if err != nil {
		return nil, wrapRPCQueryError(err, "state_getStorage")
	}
	if result == nil {
		return nil, nil
	}
	return *result, nil
}

// StorageKeysPaged implements Gateway
func (g *RPCGateway) StorageKeysPaged(ctx context.Context, prefix hexutil.Bytes, count uint32, startKey hexutil.Bytes, at *common.Hash) ([]hexutil.Bytes, error) {
	args := []interface{}{prefix.String(), count}
	if len(startKey) != 0 {
		args = append(args, startKey.String())
	} else {
		args = append(args, nil)
	}
	if at != nil {
		args = append(args, at.String())
	}
	var result []hexutil.Bytes
	err := g.post(ctx, &result, "state_getKeysPaged", args...)
	if err != nil {
		return nil, wrapRPCQueryError(err, "state_getKeysPaged")
	}
	return result, nil
}

// post tries each configured http gateway in turn, falling back to the
// websocket session when none is configured
func (g *RPCGateway) post(ctx context.Context, result interface{}, method string, args ...interface{}) (err error) {
	if len(g.httpURLs) == 0 {
		return g.remote.Call(ctx, result, method, args...)
	}
	timeout := params.GetRPCTimeout()
	for _, url := range g.httpURLs {
		err = client.RPCPostWithTimeout(timeout, result, url, method, args...)
		if err == nil {
			return nil
		}
	}
	return err
}
