package triggers

// Path parameter keys extracted from the changed document's location.
const (
	ParamAggregateType = "aggregateType"
	ParamAggregateID   = "aggregateId"
	ParamUID           = "uid"
	ParamAssignmentID  = "assignmentId"
)

// ChangeEvent is one document change as observed by the store. Before is nil
// when the document did not exist before the change, After is nil when it no
// longer exists. Triggers are pure functions over these snapshots plus the
// path parameters; the commands they return are applied by an Executor.
type ChangeEvent struct {
	Params map[string]string
	Before map[string]interface{}
	After  map[string]interface{}
}
