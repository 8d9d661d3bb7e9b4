package book

// Balance is the opaque fungible value moved through the settlement protocol.
// The ledger never inspects a balance beyond its magnitude; splitting,
// joining, and actual value transfer belong to the hosting environment.
type Balance interface {
	Magnitude() uint64
}

// Coins is a plain value balance for examples and tests. Production callers
// pass their own Balance implementation bound to real custody.
type Coins uint64

// Magnitude implements Balance.
func (c Coins) Magnitude() uint64 { return uint64(c) }
