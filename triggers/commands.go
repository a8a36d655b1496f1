package triggers

// Collection names the trigger engine writes to.
const (
	CollectionTags            = "tags"
	CollectionGroups          = "groups"
	CollectionMemberships     = "memberships"
	CollectionAssignments     = "assignments"
	CollectionUserAssignments = "user_assignments"
	CollectionNotifications   = "notifications"
)

// Command is a single write a trigger wants applied to the store.
type Command interface {
	isCommand()
}

// IncrementField atomically adds Delta to a numeric field of one document.
type IncrementField struct {
	Collection string
	DocID      string
	Field      string
	Delta      int64
}

// PutDocument creates or overwrites a document at a deterministic key.
type PutDocument struct {
	Collection string
	DocID      string
	Data       map[string]interface{}
}

// InsertDocument adds a document under a fresh store-generated id.
type InsertDocument struct {
	Collection string
	Data       map[string]interface{}
}

// DeleteDocument removes a document by key.
type DeleteDocument struct {
	Collection string
	DocID      string
}

func (IncrementField) isCommand() {}
func (PutDocument) isCommand()    {}
func (InsertDocument) isCommand() {}
func (DeleteDocument) isCommand() {}
