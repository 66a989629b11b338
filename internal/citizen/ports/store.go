// Package ports declares the interfaces the citizen service depends on, so
// storage and cache adapters can live in their own packages.
package ports

import (
	"context"

	"census/internal/citizen/models"
)

//go:generate mockgen -source=store.go -destination=mocks/store_mocks.go -package=mocks

// Store is the persistence port of the citizen module. Every method runs
// against the transaction the store was bound to by a Transactor.
//
// Reads of a missing import or citizen return sentinel.ErrNotFound;
// constraint violations return sentinel.ErrConflict.
type Store interface {
	// CreateImport allocates an import id, inserts the citizens and the
	// relative edges given as citizen_id links.
	CreateImport(ctx context.Context, citizens []models.Citizen, links []models.Link) (models.ImportID, error)

	// GetImportVersion returns the current version of the import.
	GetImportVersion(ctx context.Context, importID models.ImportID) (models.ImportVersion, error)

	// BumpImportVersion raises the import version by one and returns the new
	// value. Every transaction that changes an import calls it, which also
	// serializes concurrent writers of the same import.
	BumpImportVersion(ctx context.Context, importID models.ImportID) (models.ImportVersion, error)

	// GetCitizens returns every citizen of the import ordered by citizen_id,
	// each with relatives resolved to citizen_ids in ascending order.
	GetCitizens(ctx context.Context, importID models.ImportID) ([]models.Citizen, error)

	// GetCitizen returns one citizen with resolved relatives.
	GetCitizen(ctx context.Context, importID models.ImportID, citizenID models.CitizenID) (*models.Citizen, error)

	// UpdateCitizenFields writes the non-relationship fields of a patch.
	UpdateCitizenFields(ctx context.Context, importID models.ImportID, citizenID models.CitizenID, patch *models.CitizenPatch) error

	// GetRelativeStorageIDs returns the storage ids a citizen is linked to.
	GetRelativeStorageIDs(ctx context.Context, storageID models.StorageID) ([]models.StorageID, error)

	// ResolveIDs returns the citizen_id <-> storage id map of an import.
	ResolveIDs(ctx context.Context, importID models.ImportID) (*models.IDMap, error)

	// AddRelativeEdges inserts directed edges.
	AddRelativeEdges(ctx context.Context, edges []models.Edge) error

	// RemoveRelatives deletes the edges between a citizen and each relative,
	// in both directions.
	RemoveRelatives(ctx context.Context, storageID models.StorageID, relatives []models.StorageID) error

	ListBirthInfos(ctx context.Context, importID models.ImportID) ([]models.BirthInfo, error)
	ListEdges(ctx context.Context, importID models.ImportID) ([]models.Edge, error)
	ListTownBirthDates(ctx context.Context, importID models.ImportID) ([]models.TownBirthDate, error)
}

// Transactor runs a unit of work against a Store bound to one transaction.
// Returning an error from fn rolls everything back.
type Transactor interface {
	// RunInTx runs fn in a read-write transaction.
	RunInTx(ctx context.Context, fn func(store Store) error) error
	// RunReadOnly runs fn against a consistent read-only snapshot.
	RunReadOnly(ctx context.Context, fn func(store Store) error) error
}
