package rpc

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethrpc "github.com/ethereum/go-ethereum/rpc"

	"github.com/vietddude/execrpc/internal/core/domain"
)

func TestResolveTag(t *testing.T) {
	tests := []struct {
		tag    domain.BlockTag
		expect gethrpc.BlockNumber
	}{
		{domain.Latest, gethrpc.LatestBlockNumber},
		{domain.Finalized, gethrpc.FinalizedBlockNumber},
		{domain.BlockNumber(0), gethrpc.BlockNumber(0)},
		{domain.BlockNumber(19000000), gethrpc.BlockNumber(19000000)},
	}

	for _, tt := range tests {
		if got := resolveTag(tt.tag); got != tt.expect {
			t.Errorf("resolveTag(%v) = %v, want %v", tt.tag, got, tt.expect)
		}
	}
}

func TestBlockNumArg(t *testing.T) {
	if got := blockNumArg(gethrpc.LatestBlockNumber); got != nil {
		t.Errorf("latest should map to nil, got %v", got)
	}

	if got := blockNumArg(gethrpc.FinalizedBlockNumber); got.Cmp(big.NewInt(-3)) != 0 {
		t.Errorf("finalized should keep its sentinel, got %v", got)
	}

	if got := blockNumArg(gethrpc.BlockNumber(42)); got.Cmp(big.NewInt(42)) != 0 {
		t.Errorf("number should map to itself, got %v", got)
	}
}

func TestToFilterArg(t *testing.T) {
	from := big.NewInt(100)
	to := big.NewInt(200)

	arg, err := toFilterArg(ethereum.FilterQuery{FromBlock: from, ToBlock: to})
	if err != nil {
		t.Fatalf("toFilterArg failed: %v", err)
	}

	m := arg.(map[string]any)
	if m["fromBlock"] != "0x64" {
		t.Errorf("fromBlock = %v, want 0x64", m["fromBlock"])
	}
	if m["toBlock"] != "0xc8" {
		t.Errorf("toBlock = %v, want 0xc8", m["toBlock"])
	}
}

func TestToFilterArg_Defaults(t *testing.T) {
	arg, err := toFilterArg(ethereum.FilterQuery{})
	if err != nil {
		t.Fatalf("toFilterArg failed: %v", err)
	}

	m := arg.(map[string]any)
	if m["fromBlock"] != "0x0" {
		t.Errorf("fromBlock = %v, want 0x0", m["fromBlock"])
	}
	if m["toBlock"] != "latest" {
		t.Errorf("toBlock = %v, want latest", m["toBlock"])
	}
}

func TestToFilterArg_BlockHashConflict(t *testing.T) {
	hash := common.HexToHash("0xaa")
	_, err := toFilterArg(ethereum.FilterQuery{
		BlockHash: &hash,
		FromBlock: big.NewInt(1),
	})
	if err == nil {
		t.Fatal("expected error for block hash combined with range")
	}
}
