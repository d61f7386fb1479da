package domain

// FileOp is the index-level action implied by a filesystem change.
type FileOp string

const (
	// OpUpsert replaces all index entries for a path with fresh ones.
	OpUpsert FileOp = "upsert"

	// OpDelete removes all index entries for a path.
	OpDelete FileOp = "delete"
)

// FileEvent is one filesystem change to apply to the index. Create and
// write notifications map to OpUpsert, remove and rename to OpDelete.
type FileEvent struct {
	// Path is the absolute path of the changed file.
	Path string

	// Op is the action to take.
	Op FileOp
}
