package domain

import "fmt"

type tagKind int

const (
	tagLatest tagKind = iota
	tagFinalized
	tagNumber
)

// BlockTag selects a chain position independently of the identifier format
// the endpoint expects. It is an immutable value constructed by the caller
// and mapped onto a concrete identifier at the transport boundary.
type BlockTag struct {
	kind   tagKind
	number uint64
}

// Latest selects the most recent block known to the endpoint.
var Latest = BlockTag{kind: tagLatest}

// Finalized selects the most recent finalized block.
var Finalized = BlockTag{kind: tagFinalized}

// BlockNumber selects a specific block height.
func BlockNumber(n uint64) BlockTag {
	return BlockTag{kind: tagNumber, number: n}
}

// Number returns the selected height and true when the tag names a
// specific block.
func (t BlockTag) Number() (uint64, bool) {
	return t.number, t.kind == tagNumber
}

// IsLatest reports whether the tag selects the latest block.
func (t BlockTag) IsLatest() bool {
	return t.kind == tagLatest
}

// IsFinalized reports whether the tag selects the finalized block.
func (t BlockTag) IsFinalized() bool {
	return t.kind == tagFinalized
}

func (t BlockTag) String() string {
	switch t.kind {
	case tagFinalized:
		return "finalized"
	case tagNumber:
		return fmt.Sprintf("%d", t.number)
	default:
		return "latest"
	}
}
