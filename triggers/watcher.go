package triggers

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"partflow/models"
)

// Watcher subscribes to change streams on the memberships and assignments
// collections and feeds each change to the Engine. This is the store's
// change-notification contract made explicit: one stateless dispatch per
// document write, with the platform (here: the stream) deciding redelivery.
type Watcher struct {
	db     *mongo.Database
	engine *Engine
	logger *log.Logger
}

func NewWatcher(db *mongo.Database, engine *Engine) *Watcher {
	return &Watcher{
		db:     db,
		engine: engine,
		logger: log.New(log.Writer(), "[WATCHER] ", log.LstdFlags),
	}
}

// Start launches the membership and assignment watch loops. They run until
// the context is cancelled, reconnecting with a short backoff on stream
// errors.
func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx, "memberships", w.watchMemberships)
	go w.run(ctx, "assignments", w.watchAssignments)
}

func (w *Watcher) run(ctx context.Context, name string, watch func(context.Context) error) {
	for {
		if err := watch(ctx); err != nil {
			w.logger.Printf("%s watch failed: %v", name, err)
		}
		select {
		case <-ctx.Done():
			w.logger.Printf("%s watch stopped", name)
			return
		case <-time.After(5 * time.Second):
		}
	}
}

type membershipChange struct {
	OperationType string `bson:"operationType"`
	FullDocument  bson.M `bson:"fullDocument"`
	DocumentKey   struct {
		ID string `bson:"_id"`
	} `bson:"documentKey"`
}

func (w *Watcher) watchMemberships(ctx context.Context) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "operationType", Value: bson.D{{Key: "$in", Value: bson.A{"insert", "update", "replace", "delete"}}}},
		}}},
	}

	stream, err := w.db.Collection(CollectionMemberships).Watch(ctx, pipeline,
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return err
	}
	defer stream.Close(ctx)

	for stream.Next(ctx) {
		var change membershipChange
		if err := stream.Decode(&change); err != nil {
			w.logger.Printf("failed to decode membership change: %v", err)
			continue
		}

		ev, err := membershipEvent(change)
		if err != nil {
			w.logger.Printf("ignoring membership change: %v", err)
			continue
		}

		if err := w.engine.HandleMembershipChange(ctx, ev); err != nil {
			w.logger.Printf("membership trigger failed for %s: %v", change.DocumentKey.ID, err)
		}
	}
	return stream.Err()
}

// membershipEvent reconstructs before/after existence from the operation
// type. The membership key is deterministic, so delete events can be
// attributed to their aggregate without a document pre-image.
func membershipEvent(change membershipChange) (ChangeEvent, error) {
	aggregateType, aggregateID, uid, err := models.ParseMembershipKey(change.DocumentKey.ID)
	if err != nil {
		return ChangeEvent{}, err
	}

	ev := ChangeEvent{
		Params: map[string]string{
			ParamAggregateType: aggregateType,
			ParamAggregateID:   aggregateID,
			ParamUID:           uid,
		},
	}

	switch change.OperationType {
	case "insert":
		ev.After = change.FullDocument
	case "delete":
		ev.Before = map[string]interface{}{"_id": change.DocumentKey.ID}
	default: // update, replace: existence unchanged, delta is zero
		ev.Before = map[string]interface{}{"_id": change.DocumentKey.ID}
		ev.After = change.FullDocument
		if ev.After == nil {
			ev.After = map[string]interface{}{"_id": change.DocumentKey.ID}
		}
	}
	return ev, nil
}

type assignmentChange struct {
	OperationType string `bson:"operationType"`
	FullDocument  bson.M `bson:"fullDocument"`
	DocumentKey   struct {
		ID primitive.ObjectID `bson:"_id"`
	} `bson:"documentKey"`
}

func (w *Watcher) watchAssignments(ctx context.Context) error {
	// Creation only. Assignment updates and deletes never re-trigger fan-out.
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "operationType", Value: "insert"}}}},
	}

	stream, err := w.db.Collection(CollectionAssignments).Watch(ctx, pipeline)
	if err != nil {
		return err
	}
	defer stream.Close(ctx)

	for stream.Next(ctx) {
		var change assignmentChange
		if err := stream.Decode(&change); err != nil {
			w.logger.Printf("failed to decode assignment change: %v", err)
			continue
		}

		ev := ChangeEvent{
			Params: map[string]string{
				ParamAssignmentID: change.DocumentKey.ID.Hex(),
			},
			After: change.FullDocument,
		}

		if err := w.engine.HandleAssignmentCreate(ctx, ev); err != nil {
			w.logger.Printf("fan-out failed for assignment %s: %v", change.DocumentKey.ID.Hex(), err)
		}
	}
	return stream.Err()
}
