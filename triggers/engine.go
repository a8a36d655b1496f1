package triggers

import (
	"context"
	"log"
)

// Engine dispatches change events to their trigger functions and applies the
// resulting commands. It is the in-process equivalent of the hosting
// platform's trigger runtime: stateless, no coordination across invocations.
type Engine struct {
	store  Store
	exec   *Executor
	logger *log.Logger
}

func NewEngine(store Store) *Engine {
	return &Engine{
		store:  store,
		exec:   NewExecutor(store),
		logger: log.New(log.Writer(), "[TRIGGERS] ", log.LstdFlags),
	}
}

// HandleMembershipChange runs the membership counter for one membership
// document write.
func (en *Engine) HandleMembershipChange(ctx context.Context, ev ChangeEvent) error {
	cmds, err := MembershipCounter(ev)
	if err != nil {
		en.logger.Printf("membership counter rejected event: %v", err)
		return err
	}
	if len(cmds) == 0 {
		return nil
	}
	return en.exec.Apply(ctx, cmds)
}

// HandleAssignmentCreate fans a newly created assignment out to every
// resolved recipient. Skipped recipient entries are logged per entry rather
// than dropped silently.
func (en *Engine) HandleAssignmentCreate(ctx context.Context, ev ChangeEvent) error {
	deliveries, skipped, err := AssignmentFanout(ctx, en.store, ev)
	for _, s := range skipped {
		en.logger.Printf("assignment %s: skipped recipient entry %d: %s", ev.Params[ParamAssignmentID], s.Index, s.Reason)
	}
	if err != nil {
		return err
	}
	if len(deliveries) == 0 {
		return nil
	}
	return en.exec.ApplyDeliveries(ctx, deliveries)
}
