package domain

// MigrationFailure records one local deck that could not be migrated. The
// deck remains in the local store and is retried on the next login.
type MigrationFailure struct {
	DeckName string
	Err      error
}

// MigrationSummary is the one data product the migration exposes upward to
// the caller: how many local decks reached the server and which did not.
type MigrationSummary struct {
	MigratedCount int
	FailedCount   int
	Failures      []MigrationFailure
}

// FailedDeckNames returns the display names of decks that failed to migrate,
// in snapshot order.
func (s MigrationSummary) FailedDeckNames() []string {
	names := make([]string, len(s.Failures))
	for i, f := range s.Failures {
		names[i] = f.DeckName
	}
	return names
}

// Empty reports whether the migration was a no-op (no local decks at login).
func (s MigrationSummary) Empty() bool {
	return s.MigratedCount == 0 && s.FailedCount == 0
}
