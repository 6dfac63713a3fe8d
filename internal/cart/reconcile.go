package cart

type lineOp int

const (
	opNone lineOp = iota
	opInsert
	opUpdate
	opDelete
)

// reconcile decides what a quantity delta does to a cart line. Quantities
// never go negative: a delta that would take the line to zero or below
// deletes it, and a non-positive delta against a missing line is rejected.
func reconcile(current int, exists bool, delta int) (lineOp, int, error) {
	if !exists {
		if delta <= 0 {
			return opNone, 0, ErrNotInCart
		}
		return opInsert, delta, nil
	}

	next := current + delta
	if next <= 0 {
		return opDelete, 0, nil
	}
	return opUpdate, next, nil
}
