package triggers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"
)

// Executor applies trigger commands to a Store. It is the only component
// that touches the store on the write side, so trigger logic stays pure.
type Executor struct {
	store  Store
	logger *log.Logger
}

func NewExecutor(store Store) *Executor {
	return &Executor{
		store:  store,
		logger: log.New(log.Writer(), "[TRIGGERS] ", log.LstdFlags),
	}
}

// Apply runs commands in order, stopping at the first failure. An increment
// against a missing aggregate is an orphaned membership: it is logged as a
// reportable inconsistency and the invocation ends in error, with no
// compensating write.
func (e *Executor) Apply(ctx context.Context, cmds []Command) error {
	for _, cmd := range cmds {
		if err := e.applyOne(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) applyOne(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case IncrementField:
		err := e.store.AtomicIncrement(ctx, c.Collection, c.DocID, c.Field, c.Delta)
		if errors.Is(err, ErrNotFound) {
			e.logger.Printf("orphaned membership: aggregate %s/%s missing, dropping increment of %d", c.Collection, c.DocID, c.Delta)
			return fmt.Errorf("aggregate %s/%s not found: %w", c.Collection, c.DocID, err)
		}
		return err
	case PutDocument:
		return e.store.Put(ctx, c.Collection, c.DocID, c.Data)
	case InsertDocument:
		_, err := e.store.Insert(ctx, c.Collection, c.Data)
		return err
	case DeleteDocument:
		return e.store.Delete(ctx, c.Collection, c.DocID)
	default:
		return fmt.Errorf("unknown command type %T", cmd)
	}
}

// ApplyDeliveries applies each recipient's command batch concurrently. There
// is no ordering guarantee among recipients and no rollback: a failed
// delivery does not undo the ones that succeeded, it only surfaces as the
// returned error.
func (e *Executor) ApplyDeliveries(ctx context.Context, deliveries []Delivery) error {
	var g errgroup.Group
	g.SetLimit(8)

	for _, delivery := range deliveries {
		d := delivery
		g.Go(func() error {
			if err := e.Apply(ctx, d.Commands); err != nil {
				return fmt.Errorf("delivery to %s failed: %w", d.UID, err)
			}
			return nil
		})
	}

	return g.Wait()
}
