// Package rpc provides a resilient JSON-RPC client for Ethereum execution
// nodes.
//
// This package offers:
//   - One typed contract covering proofs, code, transactions, receipts,
//     logs, filters, fee history, access lists and full blocks
//   - Generic network bindings so a single adapter serves multiple
//     chain-specific wire schemas
//   - Retry with exponential backoff, composed either below the JSON-RPC
//     layer (retrying HTTP transport) or as an explicit per-call policy
//
// # Quick Start
//
//	client, err := rpc.NewEthereum("https://eth.example.com")
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	id, err := client.ChainID(ctx)
//	logs, err := client.GetLogs(ctx, query)
//
// Environments without transport middleware compose the backoff policy
// explicitly:
//
//	client, err := rpc.NewEthereum(url, rpc.WithManualRetry(retry.DefaultConfig))
//
// # Package Structure
//
//   - retry/   - per-call retry policy (backoff state machine, classification)
//   - metrics/ - prometheus instrumentation for calls, errors, retries
package rpc

import (
	"context"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient/gethclient"

	"github.com/vietddude/execrpc/internal/core/domain"
)

// ExecutionClient is the unified execution-layer RPC contract consumed by
// callers. The type parameters bind the network's transaction request,
// transaction response and receipt shapes; an implementation is bound to
// one set at construction time.
type ExecutionClient[TxReq, TxResp, Receipt any] interface {
	GetProof(ctx context.Context, address common.Address, slots []common.Hash, tag domain.BlockTag) (*gethclient.AccountResult, error)
	CreateAccessList(ctx context.Context, tx TxReq, tag domain.BlockTag) (*types.AccessList, error)
	GetCode(ctx context.Context, address common.Address, blockNumber uint64) ([]byte, error)
	SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error)
	GetTransactionReceipt(ctx context.Context, txHash common.Hash) (*Receipt, error)
	GetBlockReceipts(ctx context.Context, tag domain.BlockTag) ([]Receipt, error)
	GetTransaction(ctx context.Context, txHash common.Hash) (*TxResp, error)
	GetLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error)
	GetFilterChanges(ctx context.Context, id *FilterID) (FilterChanges, error)
	GetFilterLogs(ctx context.Context, id *FilterID) ([]types.Log, error)
	UninstallFilter(ctx context.Context, id *FilterID) (bool, error)
	NewFilter(ctx context.Context, query ethereum.FilterQuery) (*FilterID, error)
	NewBlockFilter(ctx context.Context) (*FilterID, error)
	NewPendingTransactionFilter(ctx context.Context) (*FilterID, error)
	GetFeeHistory(ctx context.Context, blockCount uint64, lastBlock uint64, rewardPercentiles []float64) (*ethereum.FeeHistory, error)
	GetBlock(ctx context.Context, hash common.Hash) (*Block[TxResp], error)
	ChainID(ctx context.Context) (uint64, error)
	Close()
}
