package book

import "math"

// cell is the shared non-negative magnitude behind Credit and Debt.
// All bookkeeping on a sheet funnels through these three mutators.
type cell struct {
	amount uint64
}

// Add increases the magnitude, saturating at the integer width rather than
// wrapping.
func (c *cell) Add(n uint64) {
	if c.amount > math.MaxUint64-n {
		c.amount = math.MaxUint64
		return
	}
	c.amount += n
}

// Subtract decreases the magnitude. A subtrahend larger than the current
// magnitude fails with ErrRepayTooMuch and leaves the cell untouched; a cell
// never goes negative.
func (c *cell) Subtract(n uint64) error {
	if n > c.amount {
		return ErrRepayTooMuch
	}
	c.amount -= n
	return nil
}

// Destroy checks the cell may be dropped. Only an exactly-zero cell may be
// destroyed; anything else fails with ErrDestroyNonEmptySheet.
func (c *cell) Destroy() error {
	if c.amount != 0 {
		return ErrDestroyNonEmptySheet
	}
	return nil
}

// Amount returns the current magnitude.
func (c *cell) Amount() uint64 { return c.amount }

// Credit is the outstanding magnitude one debtor kind owes the sheet owner.
type Credit struct {
	cell
}

// Debt is the outstanding magnitude the sheet owner owes one creditor kind.
type Debt struct {
	cell
}
