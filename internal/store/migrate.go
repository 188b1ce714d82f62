package store

// migration is one versioned schema change. Versions apply in ascending
// order and are recorded in schema_migrations, replacing ad-hoc ALTER TABLE
// patching with an explicit history.
type migration struct {
	version int
	sql     string
}
