package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNotFound means the requested object does not exist on chain.
	ErrNotFound = errors.New("object not found")
	// ErrExecutionFailed means the transaction was executed and aborted.
	ErrExecutionFailed = errors.New("transaction execution failed")
)

// Client is a JSON-RPC 2.0 client for the fullnode read and execute
// endpoints. It owns no state beyond the HTTP transport.
type Client struct {
	url    string
	httpc  *http.Client
	logger *zap.Logger
	nextID atomic.Int64
}

// NewClient creates a fullnode client. timeout bounds every RPC round trip.
func NewClient(url string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		url:    url,
		httpc:  &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// call performs one JSON-RPC round trip and unmarshals the result into out.
func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal rpc request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("rpc %s: %w", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rpc %s: status %d", method, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("decode rpc response: %w", err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("rpc %s: %s (code %d)", method, rpcResp.Error.Message, rpcResp.Error.Code)
	}
	if out != nil {
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			return fmt.Errorf("unmarshal %s result: %w", method, err)
		}
	}
	return nil
}

// Object is an on-chain object with its decoded Move fields. Owner is the
// address for address-owned objects, empty for shared ones.
type Object struct {
	ID     string
	Type   string
	Owner  string
	Fields map[string]any
}

type objectResponse struct {
	Data *struct {
		ObjectID string `json:"objectId"`
		Type     string `json:"type"`
		Owner    *struct {
			AddressOwner string `json:"AddressOwner"`
		} `json:"owner"`
		Content *struct {
			Fields map[string]any `json:"fields"`
		} `json:"content"`
	} `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func (r objectResponse) toObject() *Object {
	obj := &Object{ID: r.Data.ObjectID, Type: r.Data.Type}
	if r.Data.Owner != nil {
		obj.Owner = r.Data.Owner.AddressOwner
	}
	if r.Data.Content != nil {
		obj.Fields = r.Data.Content.Fields
	}
	return obj
}

// GetObject fetches one object by id. A missing or deleted object returns
// ErrNotFound; callers that treat absence as a valid result check for it.
func (c *Client) GetObject(ctx context.Context, id string) (*Object, error) {
	var resp objectResponse
	err := c.call(ctx, "sui_getObject", []any{id, map[string]any{"showContent": true, "showType": true, "showOwner": true}}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil || resp.Error != nil {
		return nil, ErrNotFound
	}
	return resp.toObject(), nil
}

type ownedObjectsPage struct {
	Data []objectResponse `json:"data"`
	// HasNextPage and cursor omitted: owned billboard sets are small and
	// the fullnode default page covers them.
}

// GetOwnedObjects lists objects of the given struct type owned by owner.
func (c *Client) GetOwnedObjects(ctx context.Context, owner, structType string) ([]*Object, error) {
	query := map[string]any{
		"filter":  map[string]any{"StructType": structType},
		"options": map[string]any{"showContent": true, "showType": true, "showOwner": true},
	}
	var page ownedObjectsPage
	if err := c.call(ctx, "suix_getOwnedObjects", []any{owner, query}, &page); err != nil {
		return nil, err
	}
	objs := make([]*Object, 0, len(page.Data))
	for _, item := range page.Data {
		if item.Data == nil {
			continue
		}
		objs = append(objs, item.toObject())
	}
	return objs, nil
}

type balanceResponse struct {
	TotalBalance string `json:"totalBalance"`
}

// GetBalance returns the owner's gas-coin balance as a string-encoded
// integer in the smallest currency unit.
func (c *Client) GetBalance(ctx context.Context, owner string) (string, error) {
	var resp balanceResponse
	if err := c.call(ctx, "suix_getBalance", []any{owner}, &resp); err != nil {
		return "", err
	}
	return resp.TotalBalance, nil
}

type transactionBytes struct {
	TxBytes string `json:"txBytes"`
}

type inspectResponse struct {
	Error   string `json:"error,omitempty"`
	Effects struct {
		Status struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		} `json:"status"`
	} `json:"effects"`
	Results []struct {
		ReturnValues [][]json.RawMessage `json:"returnValues"`
	} `json:"results"`
}

// InspectCall simulates a read-only Move call with sender as the caller and
// returns the raw bytes of the first return value. The call is staged via
// unsafe_moveCall to obtain transaction bytes, then dev-inspected; nothing
// is executed on chain.
func (c *Client) InspectCall(ctx context.Context, sender, packageID, module, function string, args []any) ([]byte, error) {
	var staged transactionBytes
	// Gas object and budget are placeholders; dev-inspect ignores them.
	err := c.call(ctx, "unsafe_moveCall",
		[]any{sender, packageID, module, function, []any{}, args, nil, "10000000"}, &staged)
	if err != nil {
		return nil, fmt.Errorf("stage inspect call: %w", err)
	}

	var resp inspectResponse
	if err := c.call(ctx, "sui_devInspectTransactionBlock", []any{sender, staged.TxBytes}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("inspect %s::%s: %s", module, function, resp.Error)
	}
	if resp.Effects.Status.Status != "success" {
		return nil, fmt.Errorf("inspect %s::%s: %s", module, function, resp.Effects.Status.Error)
	}
	if len(resp.Results) == 0 || len(resp.Results[0].ReturnValues) == 0 || len(resp.Results[0].ReturnValues[0]) == 0 {
		return nil, fmt.Errorf("inspect %s::%s: empty return", module, function)
	}
	// returnValues[0] is [bytes, type]; the bytes arrive as a JSON int array.
	var raw []int
	if err := json.Unmarshal(resp.Results[0].ReturnValues[0][0], &raw); err != nil {
		return nil, fmt.Errorf("decode return value: %w", err)
	}
	out := make([]byte, len(raw))
	for i, v := range raw {
		out[i] = byte(v)
	}
	return out, nil
}

// ExecuteResult is the outcome of submitting a signed transaction.
type ExecuteResult struct {
	Digest string
	Status string
	Error  string
}

type executeResponse struct {
	Digest  string `json:"digest"`
	Effects struct {
		Status struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		} `json:"status"`
	} `json:"effects"`
}

// ExecuteSignedTransaction submits client-signed transaction bytes. A
// contract-level abort surfaces as ErrExecutionFailed with the node's
// message attached verbatim.
func (c *Client) ExecuteSignedTransaction(ctx context.Context, txBytes string, signatures []string) (*ExecuteResult, error) {
	options := map[string]any{"showEffects": true}
	var resp executeResponse
	err := c.call(ctx, "sui_executeTransactionBlock",
		[]any{txBytes, signatures, options, "WaitForLocalExecution"}, &resp)
	if err != nil {
		return nil, err
	}
	result := &ExecuteResult{
		Digest: resp.Digest,
		Status: resp.Effects.Status.Status,
		Error:  resp.Effects.Status.Error,
	}
	if result.Status != "success" {
		c.logger.Warn("transaction aborted", zap.String("digest", result.Digest), zap.String("error", result.Error))
		return result, fmt.Errorf("%w: %s", ErrExecutionFailed, result.Error)
	}
	return result, nil
}

// Execute submits signed bytes and returns the digest; it satisfies the
// confirmation workflow's executor contract.
func (c *Client) Execute(ctx context.Context, txBytes string, signatures []string) (string, error) {
	result, err := c.ExecuteSignedTransaction(ctx, txBytes, signatures)
	if result != nil {
		return result.Digest, err
	}
	return "", err
}
