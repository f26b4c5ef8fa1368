// Package client provides JSON-RPC 2.0 calls over http POST.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultTimeout   = 60 // seconds
	defaultRequestID = 1
)

var (
	restyClient     *resty.Client
	restyClientOnce sync.Once
)

func getRestyClient() *resty.Client {
	restyClientOnce.Do(func() {
		restyClient = resty.New().
			SetTimeout(defaultTimeout * time.Second).
			SetHeader("Content-Type", "application/json")
	})
	return restyClient
}

// RequestBody is the JSON-RPC 2.0 request envelope
type RequestBody struct {
	Version string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

// JSONError is the JSON-RPC 2.0 error object
type JSONError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Error implements the error interface
func (err *JSONError) Error() string {
	return fmt.Sprintf("json-rpc error %d, %s", err.Code, err.Message)
}

type jsonrpcResponse struct {
	Version string          `json:"jsonrpc,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
	Error   *JSONError      `json:"error,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// RPCPost call method at url and unmarshal the result into result
func RPCPost(result interface{}, url, method string, params ...interface{}) error {
	return RPCPostWithTimeout(defaultTimeout, result, url, method, params...)
}

// RPCPostWithTimeout call method at url with a request scoped timeout in seconds
func RPCPostWithTimeout(timeout int, result interface{}, url, method string, params ...interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	reqBody := &RequestBody{
		Version: "2.0",
		Method:  method,
		Params:  params,
		ID:      defaultRequestID,
	}
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}
	resp, err := getRestyClient().R().SetContext(ctx).SetBody(reqBody).Post(url)
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("wrong response status %v. message: %v", resp.StatusCode(), string(resp.Body()))
	}
	return getResultFromJSONResponse(result, resp.Body())
}

func getResultFromJSONResponse(result interface{}, body []byte) error {
	var jsonResp jsonrpcResponse
	err := json.Unmarshal(body, &jsonResp)
	if err != nil {
		return fmt.Errorf("unmarshal body error: %w", err)
	}
	if jsonResp.Error != nil {
		return jsonResp.Error
	}
	if result == nil {
		return nil
	}
	err = json.Unmarshal(jsonResp.Result, &result)
	if err != nil {
		return fmt.Errorf("unmarshal result error: %w", err)
	}
	return nil
}
