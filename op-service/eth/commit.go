package eth

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Commitment is a keccak256 digest over the canonical field layout of a block or chain.
type Commitment [32]byte

func (c Commitment) String() string {
	return hexutil.Encode(c[:])
}

func (c Commitment) TerminalString() string {
	return abbreviate(c.String(), 14)
}

func (c Commitment) Equals(other Commitment) bool {
	return c == other
}

// RawCommitmentBuilder feeds a field layout into a running keccak256 hash.
type RawCommitmentBuilder struct {
	hasher crypto.KeccakState
}

func NewRawCommitmentBuilder(name string) *RawCommitmentBuilder {
	b := new(RawCommitmentBuilder)
	b.hasher = crypto.NewKeccakState()
	return b.ConstantString(name)
}

// ConstantString hashes a tag or field name. Only pass constants: the length is not hashed,
// only a terminator.
func (b *RawCommitmentBuilder) ConstantString(s string) *RawCommitmentBuilder {
	if _, err := io.WriteString(b.hasher, s); err != nil {
		panic(fmt.Sprintf("keccak state write failed: %v", err))
	}
	// 0xC0 0x7F never occurs in valid UTF-8
	return b.FixedSizeBytes([]byte{0xC0, 0x7F})
}

// Field hashes a named nested commitment.
func (b *RawCommitmentBuilder) Field(f string, c Commitment) *RawCommitmentBuilder {
	return b.ConstantString(f).FixedSizeBytes(c[:])
}

func (b *RawCommitmentBuilder) Uint64Field(f string, n uint64) *RawCommitmentBuilder {
	return b.ConstantString(f).Uint64(n)
}

// Uint64 hashes n as 8 little-endian bytes.
func (b *RawCommitmentBuilder) Uint64(n uint64) *RawCommitmentBuilder {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], n)
	return b.FixedSizeBytes(buf[:])
}

// FixedSizeBytes hashes data without its length. The length must follow from the layout.
func (b *RawCommitmentBuilder) FixedSizeBytes(data []byte) *RawCommitmentBuilder {
	b.hasher.Write(data)
	return b
}

func (b *RawCommitmentBuilder) VarSizeField(f string, data []byte) *RawCommitmentBuilder {
	return b.ConstantString(f).VarSizeBytes(data)
}

// VarSizeBytes hashes the length of data, then data.
func (b *RawCommitmentBuilder) VarSizeBytes(data []byte) *RawCommitmentBuilder {
	return b.Uint64(uint64(len(data))).FixedSizeBytes(data)
}

// Include a named list of commitments, prefixed by its length.
func (b *RawCommitmentBuilder) ListField(f string, comms []Commitment) *RawCommitmentBuilder {
	b.ConstantString(f).Uint64(uint64(len(comms)))
	for i := range comms {
		b.FixedSizeBytes(comms[i][:])
	}
	return b
}

func (b *RawCommitmentBuilder) Finalize() Commitment {
	var comm Commitment
	copy(comm[:], b.hasher.Sum(nil))
	return comm
}

func (e *Event) Commit() Commitment {
	return NewRawCommitmentBuilder("EVENT").
		VarSizeField("data", e.Data).
		Finalize()
}

func (tx *Transaction) Commit() Commitment {
	return NewRawCommitmentBuilder("TRANSACTION").
		VarSizeField("data", tx.Data).
		Finalize()
}

func (b *Block) Commit() Commitment {
	events := make([]Commitment, len(b.Events))
	for i := range b.Events {
		events[i] = b.Events[i].Commit()
	}
	txs := make([]Commitment, len(b.Txs))
	for i := range b.Txs {
		txs[i] = b.Txs[i].Commit()
	}
	return NewRawCommitmentBuilder("BLOCK").
		VarSizeField("block_hash", []byte(b.BlockHash)).
		VarSizeField("base_fee", []byte(b.BaseFee)).
		Uint64Field("block_number", b.BlockNumber).
		Uint64Field("timestamp", b.Timestamp).
		ListField("events", events).
		ListField("txs", txs).
		Finalize()
}

func (b *SequencerBlock) Commit() Commitment {
	return NewRawCommitmentBuilder("SEQUENCER_BLOCK").
		Field("block", b.Block.Commit()).
		Uint64Field("target_epoch", b.TargetEpoch).
		Finalize()
}

// ChainCommitment commits to an ordered list of blocks. Two chains have the same commitment
// only if they hold the same blocks in the same order.
func ChainCommitment(blocks []*Block) Commitment {
	comms := make([]Commitment, len(blocks))
	for i, b := range blocks {
		comms[i] = b.Commit()
	}
	return NewRawCommitmentBuilder("CHAIN").
		ListField("blocks", comms).
		Finalize()
}
