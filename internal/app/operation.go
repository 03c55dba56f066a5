package app

// Operation tracks a CLI command that may mutate the database.
// Operations are created in memory with ID=0. Only mutating commands journal
// them, which gives them an auto-increment ID that doubles as the snapshot version.
type Operation struct {
	ID         int64
	Operation  string
	Parameters string // JSON array of the command's arguments
	Status     string // "success" or "error"
}

// NewOperation creates a new in-memory operation.
func NewOperation(operation, parameters string) *Operation {
	return &Operation{
		Operation:  operation,
		Parameters: parameters,
		Status:     "success",
	}
}

// Persisted returns true if this operation has been journaled.
func (op *Operation) Persisted() bool {
	return op.ID != 0
}
