// Package guard detects domain values that bypassed their constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes no error of its own.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as produced by its constructor. A zero-value
// guard means the owning struct was built with a literal and has skipped validation.
//
// Embed it in the value and check it from the value's Validate method:
//
//	var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem")
//
//	type Item struct {
//	    productID string
//	    quantity  int
//	    guard     guard.ConstructorGuard
//	}
//
//	func NewItem(productID string, quantity int) (Item, error) {
//	    if quantity < 1 {
//	        return Item{}, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, math.MaxInt)
//	    }
//	    return Item{productID: productID, quantity: quantity, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (i Item) Validate() error {
//	    return i.guard.Validate(ErrItemIsNotConstructed)
//	}
//
// The guard is a plain value; copies keep their state and it is safe for concurrent reads.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. For a zero-value guard it returns
// validationError, or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
