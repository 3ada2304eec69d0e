package customers

import (
	"context"
	"errors"
	"fmt"
)

// ErrHasOrders indicates a removal was blocked by order history.
var ErrHasOrders = errors.New("customer has order history")

// ensureRemovable is the single removal policy for customers. Both DELETE
// and the conversion back to a lead go through it: a customer that owns
// orders cannot be removed by either path.
func (s *Service) ensureRemovable(ctx context.Context, id int64) error {
	count, err := s.repo.CountOrders(ctx, id)
	if err != nil {
		return fmt.Errorf("count orders: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d orders", ErrHasOrders, count)
	}
	return nil
}
