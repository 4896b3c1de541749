package constants

// Advisory lock ids. Values are stable across releases; instances of
// different versions share them.
const (
	MigrationLock int64 = 7301
	SeedLock      int64 = 7302
)

const (
	SchemaName = "recordgrid_schema"
	UsersTable = SchemaName + ".users"
)
