package rpc

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// FilterID identifies a server-side filter subscription.
type FilterID = hexutil.Big

// Block is the full payload of eth_getBlockByHash with transaction objects
// included. T carries the network's transaction representation.
type Block[T any] struct {
	Number           hexutil.Uint64 `json:"number"`
	Hash             common.Hash    `json:"hash"`
	ParentHash       common.Hash    `json:"parentHash"`
	Miner            common.Address `json:"miner"`
	StateRoot        common.Hash    `json:"stateRoot"`
	TransactionsRoot common.Hash    `json:"transactionsRoot"`
	ReceiptsRoot     common.Hash    `json:"receiptsRoot"`
	GasLimit         hexutil.Uint64 `json:"gasLimit"`
	GasUsed          hexutil.Uint64 `json:"gasUsed"`
	Timestamp        hexutil.Uint64 `json:"timestamp"`
	BaseFeePerGas    *hexutil.Big   `json:"baseFeePerGas,omitempty"`
	ExtraData        hexutil.Bytes  `json:"extraData"`
	Transactions     []T            `json:"transactions"`
}

// FilterChanges holds the result of eth_getFilterChanges. Log filters
// return log objects; block and pending-transaction filters return bare
// hashes. Both shapes arrive as one untagged JSON array.
type FilterChanges struct {
	Logs   []types.Log
	Hashes []common.Hash
}

func (fc *FilterChanges) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}

	for _, item := range items {
		if len(item) > 0 && item[0] == '"' {
			var h common.Hash
			if err := json.Unmarshal(item, &h); err != nil {
				return err
			}
			fc.Hashes = append(fc.Hashes, h)
			continue
		}

		var l types.Log
		if err := json.Unmarshal(item, &l); err != nil {
			return err
		}
		fc.Logs = append(fc.Logs, l)
	}

	return nil
}

// CallRequest is the outbound transaction description accepted by
// simulation calls such as eth_createAccessList on standard Ethereum
// networks. Chains with diverging request schemas bind their own type.
type CallRequest struct {
	From                 *common.Address `json:"from,omitempty"`
	To                   *common.Address `json:"to,omitempty"`
	Gas                  hexutil.Uint64  `json:"gas,omitempty"`
	GasPrice             *hexutil.Big    `json:"gasPrice,omitempty"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas,omitempty"`
	Value                *hexutil.Big    `json:"value,omitempty"`
	Input                hexutil.Bytes   `json:"input,omitempty"`
}

// accessListResult mirrors the eth_createAccessList response envelope.
type accessListResult struct {
	AccessList *types.AccessList `json:"accessList"`
	Error      string            `json:"error,omitempty"`
	GasUsed    hexutil.Uint64    `json:"gasUsed"`
}
