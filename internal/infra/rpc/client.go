package rpc

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/ethclient/gethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/google/uuid"

	"github.com/vietddude/execrpc/internal/core/domain"
	"github.com/vietddude/execrpc/internal/infra/rpc/metrics"
	"github.com/vietddude/execrpc/internal/infra/rpc/retry"
)

// Client implements ExecutionClient against a single JSON-RPC endpoint.
// The type parameters bind the network's wire shapes: the outbound
// transaction description, the mined/pending transaction representation
// and the execution receipt representation. A client is bound to exactly
// one set for its lifetime.
//
// All configuration is fixed at construction, so a Client is safe for
// concurrent use without locking.
type Client[TxReq, TxResp, Receipt any] struct {
	endpoint string
	opts     []Option

	rpc  *gethrpc.Client
	eth  *ethclient.Client
	geth *gethclient.Client

	policy retry.Policy
	log    *slog.Logger
}

type options struct {
	httpClient *http.Client
	manual     bool
	retryCfg   retry.Config
	log        *slog.Logger
}

// Option customizes client construction.
type Option func(*options)

// WithManualRetry composes the explicit backoff policy around every call
// instead of the retrying HTTP transport. Use it in execution environments
// where a custom transport is unavailable.
func WithManualRetry(cfg retry.Config) Option {
	return func(o *options) {
		o.manual = true
		o.retryCfg = cfg
	}
}

// WithHTTPClient overrides the HTTP client used for the endpoint exchange.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// New builds a client for the given endpoint URL. Construction validates
// the URL and builds a lazy connection handle; no network I/O happens
// until the first call.
//
// By default resilience comes from a retrying HTTP transport underneath
// the JSON-RPC layer and each logical call is issued exactly once above
// it. WithManualRetry selects the explicit per-call backoff policy
// instead. Call bodies are identical in both modes; only the composed
// policy differs.
func New[TxReq, TxResp, Receipt any](endpoint string, opts ...Option) (*Client[TxReq, TxResp, Receipt], error) {
	o := options{retryCfg: retry.DefaultConfig}
	for _, opt := range opts {
		opt(&o)
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}

	log := o.log
	if log == nil {
		log = slog.Default()
	}
	log = log.With("rpc_client", uuid.New().String())

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	var policy retry.Policy = retry.Passthrough{}
	if o.manual {
		policy = retry.NewBackoff(o.retryCfg, log)
	} else {
		httpClient = &http.Client{
			Timeout:   httpClient.Timeout,
			Transport: newRetryTransport(httpClient.Transport),
		}
	}

	rc, err := gethrpc.DialOptions(context.Background(), endpoint, gethrpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("dial endpoint: %w", err)
	}

	return &Client[TxReq, TxResp, Receipt]{
		endpoint: endpoint,
		opts:     opts,
		rpc:      rc,
		eth:      ethclient.NewClient(rc),
		geth:     gethclient.New(rc),
		policy:   policy,
		log:      log,
	}, nil
}

// Clone builds a fresh client against the same endpoint with the same
// options. Live connection state is not shared.
func (c *Client[TxReq, TxResp, Receipt]) Clone() (*Client[TxReq, TxResp, Receipt], error) {
	return New[TxReq, TxResp, Receipt](c.endpoint, c.opts...)
}

// Endpoint returns the endpoint URL the client was built against.
func (c *Client[TxReq, TxResp, Receipt]) Endpoint() string {
	return c.endpoint
}

// Close releases the underlying connection handle.
func (c *Client[TxReq, TxResp, Receipt]) Close() {
	c.rpc.Close()
}

// do routes one logical call through the composed retry policy, records
// metrics and wraps any surfaced failure with the operation name.
func (c *Client[TxReq, TxResp, Receipt]) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	err := c.policy.Do(ctx, op, fn)

	metrics.RPCCallsTotal.WithLabelValues(op).Inc()
	metrics.RPCLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.RPCErrorsTotal.WithLabelValues(op).Inc()
		c.log.Debug("rpc call failed", "op", op, "error", err)
		return &Error{Op: op, Err: err}
	}
	return nil
}

// GetProof fetches a state proof for address and storage slots at the
// given chain position.
func (c *Client[TxReq, TxResp, Receipt]) GetProof(ctx context.Context, address common.Address, slots []common.Hash, tag domain.BlockTag) (*gethclient.AccountResult, error) {
	keys := make([]string, len(slots))
	for i, s := range slots {
		keys[i] = s.Hex()
	}
	block := blockNumArg(resolveTag(tag))

	var proof *gethclient.AccountResult
	err := c.do(ctx, "get_proof", func(ctx context.Context) error {
		var err error
		proof, err = c.geth.GetProof(ctx, address, keys, block)
		return err
	})
	if err != nil {
		return nil, err
	}
	return proof, nil
}

// CreateAccessList simulates tx at the given chain position and returns
// the access list the execution touched.
func (c *Client[TxReq, TxResp, Receipt]) CreateAccessList(ctx context.Context, tx TxReq, tag domain.BlockTag) (*types.AccessList, error) {
	block := resolveTag(tag)

	var res accessListResult
	err := c.do(ctx, "create_access_list", func(ctx context.Context) error {
		return c.rpc.CallContext(ctx, &res, "eth_createAccessList", tx, block)
	})
	if err != nil {
		return nil, err
	}
	return res.AccessList, nil
}

// GetCode fetches the deployed bytecode of address at a specific block
// height. Takes a bare number, not a tag.
func (c *Client[TxReq, TxResp, Receipt]) GetCode(ctx context.Context, address common.Address, blockNumber uint64) ([]byte, error) {
	var code []byte
	err := c.do(ctx, "get_code", func(ctx context.Context) error {
		var err error
		code, err = c.eth.CodeAt(ctx, address, new(big.Int).SetUint64(blockNumber))
		return err
	})
	if err != nil {
		return nil, err
	}
	return code, nil
}

// SendRawTransaction submits pre-signed transaction bytes and returns the
// resulting hash.
func (c *Client[TxReq, TxResp, Receipt]) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	var hash common.Hash
	err := c.do(ctx, "send_raw_transaction", func(ctx context.Context) error {
		return c.rpc.CallContext(ctx, &hash, "eth_sendRawTransaction", hexutil.Encode(raw))
	})
	if err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// GetTransactionReceipt returns the receipt for txHash, or nil when the
// endpoint has none.
func (c *Client[TxReq, TxResp, Receipt]) GetTransactionReceipt(ctx context.Context, txHash common.Hash) (*Receipt, error) {
	var receipt *Receipt
	err := c.do(ctx, "get_transaction_receipt", func(ctx context.Context) error {
		return c.rpc.CallContext(ctx, &receipt, "eth_getTransactionReceipt", txHash)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// GetBlockReceipts returns all receipts of the block at the given chain
// position, or nil when the endpoint does not know the block.
func (c *Client[TxReq, TxResp, Receipt]) GetBlockReceipts(ctx context.Context, tag domain.BlockTag) ([]Receipt, error) {
	block := resolveTag(tag)

	var receipts []Receipt
	err := c.do(ctx, "get_block_receipts", func(ctx context.Context) error {
		return c.rpc.CallContext(ctx, &receipts, "eth_getBlockReceipts", block)
	})
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

// GetTransaction returns the transaction for txHash, or nil when unknown.
func (c *Client[TxReq, TxResp, Receipt]) GetTransaction(ctx context.Context, txHash common.Hash) (*TxResp, error) {
	var tx *TxResp
	err := c.do(ctx, "get_transaction", func(ctx context.Context) error {
		return c.rpc.CallContext(ctx, &tx, "eth_getTransactionByHash", txHash)
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// GetLogs returns the logs matching query.
func (c *Client[TxReq, TxResp, Receipt]) GetLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	var logs []types.Log
	err := c.do(ctx, "get_logs", func(ctx context.Context) error {
		var err error
		logs, err = c.eth.FilterLogs(ctx, query)
		return err
	})
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// GetFilterChanges polls a filter subscription for new matches since the
// last poll.
func (c *Client[TxReq, TxResp, Receipt]) GetFilterChanges(ctx context.Context, id *FilterID) (FilterChanges, error) {
	var changes FilterChanges
	err := c.do(ctx, "get_filter_changes", func(ctx context.Context) error {
		return c.rpc.CallContext(ctx, &changes, "eth_getFilterChanges", id)
	})
	if err != nil {
		return FilterChanges{}, err
	}
	return changes, nil
}

// GetFilterLogs returns all logs accumulated by a log filter. Issued as a
// raw named call; the typed transport has no helper for it.
func (c *Client[TxReq, TxResp, Receipt]) GetFilterLogs(ctx context.Context, id *FilterID) ([]types.Log, error) {
	var logs []types.Log
	err := c.do(ctx, "get_filter_logs", func(ctx context.Context) error {
		return c.rpc.CallContext(ctx, &logs, "eth_getFilterLogs", id)
	})
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// UninstallFilter removes a filter subscription from the endpoint and
// reports whether it existed. Issued as a raw named call.
func (c *Client[TxReq, TxResp, Receipt]) UninstallFilter(ctx context.Context, id *FilterID) (bool, error) {
	var ok bool
	err := c.do(ctx, "uninstall_filter", func(ctx context.Context) error {
		return c.rpc.CallContext(ctx, &ok, "eth_uninstallFilter", id)
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

// NewFilter registers a log filter subscription for query and returns its
// identifier.
func (c *Client[TxReq, TxResp, Receipt]) NewFilter(ctx context.Context, query ethereum.FilterQuery) (*FilterID, error) {
	arg, err := toFilterArg(query)
	if err != nil {
		return nil, &Error{Op: "new_filter", Err: err}
	}

	var id FilterID
	err = c.do(ctx, "new_filter", func(ctx context.Context) error {
		return c.rpc.CallContext(ctx, &id, "eth_newFilter", arg)
	})
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// NewBlockFilter registers a filter that accumulates new block hashes.
func (c *Client[TxReq, TxResp, Receipt]) NewBlockFilter(ctx context.Context) (*FilterID, error) {
	var id FilterID
	err := c.do(ctx, "new_block_filter", func(ctx context.Context) error {
		return c.rpc.CallContext(ctx, &id, "eth_newBlockFilter")
	})
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// NewPendingTransactionFilter registers a filter that accumulates pending
// transaction hashes. Bare hashes, not full objects.
func (c *Client[TxReq, TxResp, Receipt]) NewPendingTransactionFilter(ctx context.Context) (*FilterID, error) {
	var id FilterID
	err := c.do(ctx, "new_pending_transaction_filter", func(ctx context.Context) error {
		return c.rpc.CallContext(ctx, &id, "eth_newPendingTransactionFilter")
	})
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// GetFeeHistory returns gas fee history for blockCount blocks ending at
// lastBlock, with per-block reward percentiles.
func (c *Client[TxReq, TxResp, Receipt]) GetFeeHistory(ctx context.Context, blockCount uint64, lastBlock uint64, rewardPercentiles []float64) (*ethereum.FeeHistory, error) {
	var hist *ethereum.FeeHistory
	err := c.do(ctx, "fee_history", func(ctx context.Context) error {
		var err error
		hist, err = c.eth.FeeHistory(ctx, blockCount, new(big.Int).SetUint64(lastBlock), rewardPercentiles)
		return err
	})
	if err != nil {
		return nil, err
	}
	return hist, nil
}

// GetBlock fetches the full block for hash with transaction objects
// included. Returns ErrBlockNotFound when the endpoint affirmatively
// reports no block for the hash.
func (c *Client[TxReq, TxResp, Receipt]) GetBlock(ctx context.Context, hash common.Hash) (*Block[TxResp], error) {
	var block *Block[TxResp]
	err := c.do(ctx, "get_block", func(ctx context.Context) error {
		return c.rpc.CallContext(ctx, &block, "eth_getBlockByHash", hash, true)
	})
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, ErrBlockNotFound
	}
	return block, nil
}

// ChainID returns the chain identifier of the endpoint.
func (c *Client[TxReq, TxResp, Receipt]) ChainID(ctx context.Context) (uint64, error) {
	var id *big.Int
	err := c.do(ctx, "chain_id", func(ctx context.Context) error {
		var err error
		id, err = c.eth.ChainID(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id.Uint64(), nil
}
