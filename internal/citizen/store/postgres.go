// Package store implements the citizen persistence port for PostgreSQL and
// for process memory.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"census/internal/citizen/models"
	"census/pkg/platform/sentinel"
)

// DBTX is the subset of *sql.DB and *sql.Tx the store needs.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists imports, citizens and relative edges in PostgreSQL.
// It is normally bound to a transaction by PostgresTx.
type PostgresStore struct {
	db DBTX
}

// NewPostgres binds a store to a connection or transaction.
func NewPostgres(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

const citizenColumns = `c.id, c.citizen_id, c.town, c.street, c.building, c.apartment, c.name, c.birth_date, c.gender`

// CreateImport allocates an import and bulk-inserts its citizens and edges
// with unnest, three round trips regardless of batch size.
func (s *PostgresStore) CreateImport(ctx context.Context, citizens []models.Citizen, links []models.Link) (models.ImportID, error) {
	var importID int64
	if err := s.db.QueryRowContext(ctx, `INSERT INTO imports DEFAULT VALUES RETURNING id`).Scan(&importID); err != nil {
		return 0, translate(fmt.Errorf("insert import: %w", err))
	}

	n := len(citizens)
	var (
		ids        = make([]int64, 0, n)
		towns      = make([]string, 0, n)
		streets    = make([]string, 0, n)
		buildings  = make([]string, 0, n)
		apartments = make([]int64, 0, n)
		names      = make([]string, 0, n)
		birthDates = make([]string, 0, n)
		genders    = make([]string, 0, n)
	)
	for _, c := range citizens {
		ids = append(ids, int64(c.CitizenID))
		towns = append(towns, c.Town)
		streets = append(streets, c.Street)
		buildings = append(buildings, c.Building)
		apartments = append(apartments, c.Apartment)
		names = append(names, c.Name)
		birthDates = append(birthDates, c.BirthDate.ISO())
		genders = append(genders, string(c.Gender))
	}

	query := `
		INSERT INTO citizens (import_id, citizen_id, town, street, building, apartment, name, birth_date, gender)
		SELECT $1, u.citizen_id, u.town, u.street, u.building, u.apartment, u.name, u.birth_date, u.gender
		FROM unnest($2::bigint[], $3::text[], $4::text[], $5::text[], $6::bigint[], $7::text[], $8::date[], $9::text[])
			AS u(citizen_id, town, street, building, apartment, name, birth_date, gender)
		RETURNING id, citizen_id
	`
	rows, err := s.db.QueryContext(ctx, query,
		importID,
		pq.Array(ids),
		pq.Array(towns),
		pq.Array(streets),
		pq.Array(buildings),
		pq.Array(apartments),
		pq.Array(names),
		pq.Array(birthDates),
		pq.Array(genders),
	)
	if err != nil {
		return 0, translate(fmt.Errorf("insert citizens: %w", err))
	}
	idMap, err := scanIDMap(rows, n)
	if err != nil {
		return 0, translate(err)
	}

	edges := make([]models.Edge, 0, len(links))
	for _, l := range links {
		from, ok := idMap.StorageID(l.CitizenID)
		if !ok {
			return 0, fmt.Errorf("%w: citizen %d not inserted", sentinel.ErrConflict, l.CitizenID)
		}
		to, ok := idMap.StorageID(l.RelativeID)
		if !ok {
			return 0, fmt.Errorf("%w: relative %d not inserted", sentinel.ErrConflict, l.RelativeID)
		}
		edges = append(edges, models.Edge{CitizenRef: from, RelativeRef: to})
	}
	if err := s.AddRelativeEdges(ctx, edges); err != nil {
		return 0, err
	}
	return models.ImportID(importID), nil
}

// GetImportVersion reads the version column of an import.
func (s *PostgresStore) GetImportVersion(ctx context.Context, importID models.ImportID) (models.ImportVersion, error) {
	var version int64
	err := s.db.QueryRowContext(ctx, `SELECT version FROM imports WHERE id = $1`, int64(importID)).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, sentinel.ErrNotFound
	}
	if err != nil {
		return 0, translate(fmt.Errorf("query import version: %w", err))
	}
	return models.ImportVersion(version), nil
}

// BumpImportVersion increments the version column. The row lock it takes is
// held until the transaction ends.
func (s *PostgresStore) BumpImportVersion(ctx context.Context, importID models.ImportID) (models.ImportVersion, error) {
	var version int64
	err := s.db.QueryRowContext(ctx,
		`UPDATE imports SET version = version + 1 WHERE id = $1 RETURNING version`, int64(importID)).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, sentinel.ErrNotFound
	}
	if err != nil {
		return 0, translate(fmt.Errorf("bump import version: %w", err))
	}
	return models.ImportVersion(version), nil
}

// GetCitizens returns the citizens of an import with resolved relatives.
func (s *PostgresStore) GetCitizens(ctx context.Context, importID models.ImportID) ([]models.Citizen, error) {
	query := `
		SELECT ` + citizenColumns + `, r.citizen_id
		FROM citizens c
		LEFT JOIN relatives rel ON rel.citizen_ref = c.id
		LEFT JOIN citizens r ON r.id = rel.relative_ref
		WHERE c.import_id = $1
		ORDER BY c.citizen_id, r.citizen_id
	`
	rows, err := s.db.QueryContext(ctx, query, int64(importID))
	if err != nil {
		return nil, translate(fmt.Errorf("query citizens: %w", err))
	}
	citizens, err := scanCitizens(rows)
	if err != nil {
		return nil, err
	}
	if len(citizens) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return citizens, nil
}

// GetCitizen returns one citizen of an import with resolved relatives.
func (s *PostgresStore) GetCitizen(ctx context.Context, importID models.ImportID, citizenID models.CitizenID) (*models.Citizen, error) {
	query := `
		SELECT ` + citizenColumns + `, r.citizen_id
		FROM citizens c
		LEFT JOIN relatives rel ON rel.citizen_ref = c.id
		LEFT JOIN citizens r ON r.id = rel.relative_ref
		WHERE c.import_id = $1 AND c.citizen_id = $2
		ORDER BY r.citizen_id
	`
	rows, err := s.db.QueryContext(ctx, query, int64(importID), int64(citizenID))
	if err != nil {
		return nil, translate(fmt.Errorf("query citizen: %w", err))
	}
	citizens, err := scanCitizens(rows)
	if err != nil {
		return nil, err
	}
	if len(citizens) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return &citizens[0], nil
}

// UpdateCitizenFields writes the non-relationship fields set in patch. Zero
// rows affected means the (import, citizen) pair does not exist.
func (s *PostgresStore) UpdateCitizenFields(ctx context.Context, importID models.ImportID, citizenID models.CitizenID, patch *models.CitizenPatch) error {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Town != nil {
		set("town", *patch.Town)
	}
	if patch.Street != nil {
		set("street", *patch.Street)
	}
	if patch.Building != nil {
		set("building", *patch.Building)
	}
	if patch.Apartment != nil {
		set("apartment", *patch.Apartment)
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.BirthDate != nil {
		set("birth_date", patch.BirthDate.ISO())
	}
	if patch.Gender != nil {
		set("gender", string(*patch.Gender))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, int64(importID), int64(citizenID))
	query := fmt.Sprintf(`UPDATE citizens SET %s WHERE import_id = $%d AND citizen_id = $%d`,
		strings.Join(sets, ", "), len(args)-1, len(args))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translate(fmt.Errorf("update citizen: %w", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update citizen rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// GetRelativeStorageIDs returns the storage ids linked from a citizen.
func (s *PostgresStore) GetRelativeStorageIDs(ctx context.Context, storageID models.StorageID) ([]models.StorageID, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT relative_ref FROM relatives WHERE citizen_ref = $1 ORDER BY relative_ref`, int64(storageID))
	if err != nil {
		return nil, translate(fmt.Errorf("query relatives: %w", err))
	}
	defer rows.Close()

	out := make([]models.StorageID, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan relative: %w", err)
		}
		out = append(out, models.StorageID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, translate(fmt.Errorf("iterate relatives: %w", err))
	}
	return out, nil
}

// ResolveIDs loads the citizen_id <-> storage id map of an import.
func (s *PostgresStore) ResolveIDs(ctx context.Context, importID models.ImportID) (*models.IDMap, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, citizen_id FROM citizens WHERE import_id = $1`, int64(importID))
	if err != nil {
		return nil, translate(fmt.Errorf("query citizen ids: %w", err))
	}
	ids, err := scanIDMap(rows, 0)
	if err != nil {
		return nil, translate(err)
	}
	if ids.Len() == 0 {
		return nil, sentinel.ErrNotFound
	}
	return ids, nil
}

// AddRelativeEdges inserts directed edges in one statement.
func (s *PostgresStore) AddRelativeEdges(ctx context.Context, edges []models.Edge) error {
	if len(edges) == 0 {
		return nil
	}
	from := make([]int64, 0, len(edges))
	to := make([]int64, 0, len(edges))
	for _, e := range edges {
		from = append(from, int64(e.CitizenRef))
		to = append(to, int64(e.RelativeRef))
	}
	query := `
		INSERT INTO relatives (citizen_ref, relative_ref)
		SELECT * FROM unnest($1::bigint[], $2::bigint[])
	`
	if _, err := s.db.ExecContext(ctx, query, pq.Array(from), pq.Array(to)); err != nil {
		return translate(fmt.Errorf("insert relatives: %w", err))
	}
	return nil
}

// RemoveRelatives deletes both directions of each relationship.
func (s *PostgresStore) RemoveRelatives(ctx context.Context, storageID models.StorageID, relatives []models.StorageID) error {
	if len(relatives) == 0 {
		return nil
	}
	refs := make([]int64, 0, len(relatives))
	for _, r := range relatives {
		refs = append(refs, int64(r))
	}
	query := `
		DELETE FROM relatives
		WHERE (citizen_ref = $1 AND relative_ref = ANY($2::bigint[]))
		   OR (relative_ref = $1 AND citizen_ref = ANY($2::bigint[]))
	`
	if _, err := s.db.ExecContext(ctx, query, int64(storageID), pq.Array(refs)); err != nil {
		return translate(fmt.Errorf("delete relatives: %w", err))
	}
	return nil
}

// ListBirthInfos returns storage id, citizen_id and birth date of every
// citizen of the import.
func (s *PostgresStore) ListBirthInfos(ctx context.Context, importID models.ImportID) ([]models.BirthInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, citizen_id, birth_date FROM citizens WHERE import_id = $1`, int64(importID))
	if err != nil {
		return nil, translate(fmt.Errorf("query birth dates: %w", err))
	}
	defer rows.Close()

	var out []models.BirthInfo
	for rows.Next() {
		var (
			sid, cid int64
			birth    time.Time
		)
		if err := rows.Scan(&sid, &cid, &birth); err != nil {
			return nil, fmt.Errorf("scan birth date: %w", err)
		}
		out = append(out, models.BirthInfo{
			StorageID: models.StorageID(sid),
			CitizenID: models.CitizenID(cid),
			BirthDate: models.DateOf(birth),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, translate(fmt.Errorf("iterate birth dates: %w", err))
	}
	if len(out) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return out, nil
}

// ListEdges returns every stored edge of the import.
func (s *PostgresStore) ListEdges(ctx context.Context, importID models.ImportID) ([]models.Edge, error) {
	query := `
		SELECT rel.citizen_ref, rel.relative_ref
		FROM relatives rel
		JOIN citizens c ON c.id = rel.citizen_ref
		WHERE c.import_id = $1
	`
	rows, err := s.db.QueryContext(ctx, query, int64(importID))
	if err != nil {
		return nil, translate(fmt.Errorf("query edges: %w", err))
	}
	defer rows.Close()

	out := make([]models.Edge, 0)
	for rows.Next() {
		var from, to int64
		if err := rows.Scan(&from, &to); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		out = append(out, models.Edge{CitizenRef: models.StorageID(from), RelativeRef: models.StorageID(to)})
	}
	if err := rows.Err(); err != nil {
		return nil, translate(fmt.Errorf("iterate edges: %w", err))
	}
	return out, nil
}

// ListTownBirthDates returns town and birth date of every citizen of the
// import, ordered by town.
func (s *PostgresStore) ListTownBirthDates(ctx context.Context, importID models.ImportID) ([]models.TownBirthDate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT town, birth_date FROM citizens WHERE import_id = $1 ORDER BY town`, int64(importID))
	if err != nil {
		return nil, translate(fmt.Errorf("query towns: %w", err))
	}
	defer rows.Close()

	var out []models.TownBirthDate
	for rows.Next() {
		var (
			town  string
			birth time.Time
		)
		if err := rows.Scan(&town, &birth); err != nil {
			return nil, fmt.Errorf("scan town: %w", err)
		}
		out = append(out, models.TownBirthDate{Town: town, BirthDate: models.DateOf(birth)})
	}
	if err := rows.Err(); err != nil {
		return nil, translate(fmt.Errorf("iterate towns: %w", err))
	}
	if len(out) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return out, nil
}

// scanCitizens folds the citizen x relative join into citizens. Rows must
// be grouped by citizen.
func scanCitizens(rows *sql.Rows) ([]models.Citizen, error) {
	defer rows.Close()

	var (
		out  []models.Citizen
		last int64 = -1
	)
	for rows.Next() {
		var (
			sid      int64
			c        models.Citizen
			cid      int64
			gender   string
			birth    time.Time
			relative sql.NullInt64
		)
		err := rows.Scan(&sid, &cid, &c.Town, &c.Street, &c.Building, &c.Apartment, &c.Name, &birth, &gender, &relative)
		if err != nil {
			return nil, fmt.Errorf("scan citizen: %w", err)
		}
		if sid != last {
			c.CitizenID = models.CitizenID(cid)
			c.BirthDate = models.DateOf(birth)
			c.Gender = models.Gender(gender)
			c.Relatives = []models.CitizenID{}
			out = append(out, c)
			last = sid
		}
		if relative.Valid {
			cur := &out[len(out)-1]
			cur.Relatives = append(cur.Relatives, models.CitizenID(relative.Int64))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, translate(fmt.Errorf("iterate citizens: %w", err))
	}
	return out, nil
}

func scanIDMap(rows *sql.Rows, size int) (*models.IDMap, error) {
	defer rows.Close()

	ids := models.NewIDMap(size)
	for rows.Next() {
		var sid, cid int64
		if err := rows.Scan(&sid, &cid); err != nil {
			return nil, fmt.Errorf("scan citizen id: %w", err)
		}
		ids.Put(models.CitizenID(cid), models.StorageID(sid))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate citizen ids: %w", err)
	}
	return ids, nil
}
