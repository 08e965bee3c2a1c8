package rpc

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// receiptFetchConcurrency bounds parallel receipt lookups so a large batch
// does not overwhelm the endpoint.
const receiptFetchConcurrency = 5

// GetReceipts fetches receipts for a batch of transaction hashes
// concurrently. Results come back in hash order; hashes the endpoint has
// no receipt for yield nil entries. The first transport failure cancels
// the remaining lookups.
func (c *Client[TxReq, TxResp, Receipt]) GetReceipts(ctx context.Context, hashes []common.Hash) ([]*Receipt, error) {
	receipts := make([]*Receipt, len(hashes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(receiptFetchConcurrency)

	for i, h := range hashes {
		g.Go(func() error {
			r, err := c.GetTransactionReceipt(ctx, h)
			if err != nil {
				return err
			}
			receipts[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return receipts, nil
}
