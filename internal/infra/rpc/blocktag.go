package rpc

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"

	"github.com/vietddude/execrpc/internal/core/domain"
)

// resolveTag maps the abstract chain-position selector onto the block
// identifier the endpoint expects. Pure mapping, no I/O.
func resolveTag(tag domain.BlockTag) gethrpc.BlockNumber {
	if n, ok := tag.Number(); ok {
		return gethrpc.BlockNumber(n)
	}
	if tag.IsFinalized() {
		return gethrpc.FinalizedBlockNumber
	}
	return gethrpc.LatestBlockNumber
}

// blockNumArg converts a resolved identifier into the *big.Int form the
// typed transport helpers take. Negative sentinels pass through so the
// transport renders "latest"/"finalized" on the wire.
func blockNumArg(bn gethrpc.BlockNumber) *big.Int {
	if bn == gethrpc.LatestBlockNumber {
		return nil
	}
	return big.NewInt(int64(bn))
}

// toFilterArg renders a filter query as the positional argument of
// eth_newFilter. The typed transport keeps its equivalent unexported.
func toFilterArg(q ethereum.FilterQuery) (any, error) {
	arg := map[string]any{
		"address": q.Addresses,
		"topics":  q.Topics,
	}
	if q.BlockHash != nil {
		if q.FromBlock != nil || q.ToBlock != nil {
			return nil, errors.New("cannot specify both block hash and block range")
		}
		arg["blockHash"] = *q.BlockHash
		return arg, nil
	}
	if q.FromBlock == nil {
		arg["fromBlock"] = "0x0"
	} else {
		arg["fromBlock"] = hexutil.EncodeBig(q.FromBlock)
	}
	if q.ToBlock == nil {
		arg["toBlock"] = "latest"
	} else {
		arg["toBlock"] = hexutil.EncodeBig(q.ToBlock)
	}
	return arg, nil
}
