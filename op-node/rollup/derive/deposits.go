package derive

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/ethereum-optimism/optimistic-specs/op-service/eth"
)

// DepositTag prefixes the provenance fields of a deposit block.
const DepositTag = "deposit "

// DeriveDepositBlock builds the deposit block of the epoch anchored at the given L1 block.
// Every L1 event becomes an L2 transaction; the deposit block emits no events itself.
func DeriveDepositBlock(l1Block *eth.Block) *eth.Block {
	txs := make([]eth.Transaction, len(l1Block.Events))
	for i, ev := range l1Block.Events {
		txs[i] = eth.Transaction{Data: copyBytes(ev.Data)}
	}
	return &eth.Block{
		BlockHash:   DepositTag + l1Block.BlockHash,
		BaseFee:     DepositTag + l1Block.BaseFee,
		BlockNumber: l1Block.BlockNumber,
		Timestamp:   l1Block.Timestamp,
		Events:      []eth.Event{},
		Txs:         txs,
	}
}

func copyBytes(b hexutil.Bytes) hexutil.Bytes {
	if b == nil {
		return nil
	}
	return append(hexutil.Bytes{}, b...)
}
