package rpc

import (
	"github.com/ethereum/go-ethereum/core/types"
)

// EthereumClient binds the generic client to the canonical Ethereum wire
// types. Chains with diverging schemas (OP-stack deposit receipts, custom
// transaction envelopes) supply their own bindings through New.
type EthereumClient = Client[CallRequest, types.Transaction, types.Receipt]

// NewEthereum builds a client for a standard Ethereum execution endpoint.
func NewEthereum(endpoint string, opts ...Option) (*EthereumClient, error) {
	return New[CallRequest, types.Transaction, types.Receipt](endpoint, opts...)
}

var _ ExecutionClient[CallRequest, types.Transaction, types.Receipt] = (*EthereumClient)(nil)
