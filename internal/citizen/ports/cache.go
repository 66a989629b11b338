package ports

import (
	"context"

	"census/internal/citizen/models"
)

//go:generate mockgen -source=cache.go -destination=mocks/cache_mocks.go -package=mocks

// ViewCache stores computed aggregate views of an import. Entries are keyed
// by the import version they were computed from, so an entry never changes
// once written and a patch makes older entries unreachable. A miss is
// reported with ok=false, never as an error. Errors are infrastructure
// failures the caller may ignore.
type ViewCache interface {
	GetBirthdays(ctx context.Context, importID models.ImportID, version models.ImportVersion) (stats models.BirthdayStats, ok bool, err error)
	SetBirthdays(ctx context.Context, importID models.ImportID, version models.ImportVersion, stats models.BirthdayStats) error

	// Age percentiles depend on the current date, so they are keyed by it.
	GetTownAges(ctx context.Context, importID models.ImportID, version models.ImportVersion, day models.Date) (stats []models.TownAgeStat, ok bool, err error)
	SetTownAges(ctx context.Context, importID models.ImportID, version models.ImportVersion, day models.Date, stats []models.TownAgeStat) error

	// Invalidate drops every cached view of the import, whatever its version.
	Invalidate(ctx context.Context, importID models.ImportID) error
}
