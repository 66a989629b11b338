package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"census/internal/citizen/models"
	"census/internal/citizen/ports"
	dErrors "census/pkg/domain-errors"
	"census/pkg/platform/sentinel"
)

var errReadOnly = errors.New("write attempted in read-only transaction")

// InMemoryTx keeps all imports in process memory. Write transactions mutate
// the state in place under the write lock and journal an undo step per
// change; a failed unit of work replays the journal backwards, so its cost
// follows the size of the change rather than the size of the state.
type InMemoryTx struct {
	mu      sync.RWMutex
	state   *memoryState
	timeout time.Duration
}

func NewInMemoryTx() *InMemoryTx {
	return &InMemoryTx{state: newMemoryState(), timeout: defaultTxTimeout}
}

func (t *InMemoryTx) RunInTx(ctx context.Context, fn func(store ports.Store) error) error {
	ctx, cancel, err := t.begin(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	t.mu.Lock()
	defer t.mu.Unlock()

	store := &InMemoryStore{state: t.state, journal: &undoJournal{}}
	if err := fn(store); err != nil {
		store.journal.rollback()
		return err
	}
	if err := ctx.Err(); err != nil {
		store.journal.rollback()
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return nil
}

func (t *InMemoryTx) RunReadOnly(ctx context.Context, fn func(store ports.Store) error) error {
	_, cancel, err := t.begin(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	t.mu.RLock()
	defer t.mu.RUnlock()
	return fn(&InMemoryStore{state: t.state})
}

func (t *InMemoryTx) begin(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := ctx.Err(); err != nil {
		return ctx, func() {}, dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && t.timeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, t.timeout)
		return ctx, cancel, nil
	}
	return ctx, func() {}, nil
}

// undoJournal records the inverse of every mutation of one write
// transaction.
type undoJournal struct {
	steps []func()
}

func (j *undoJournal) record(step func()) {
	j.steps = append(j.steps, step)
}

func (j *undoJournal) rollback() {
	for i := len(j.steps) - 1; i >= 0; i-- {
		j.steps[i]()
	}
	j.steps = nil
}

type memoryCitizen struct {
	importID models.ImportID
	citizen  models.Citizen
}

type memoryState struct {
	lastImport  int64
	lastStorage int64
	citizens    map[models.StorageID]memoryCitizen
	byImport    map[models.ImportID]map[models.CitizenID]models.StorageID
	versions    map[models.ImportID]models.ImportVersion
	edges       map[models.StorageID]map[models.StorageID]struct{}
}

func newMemoryState() *memoryState {
	return &memoryState{
		citizens: make(map[models.StorageID]memoryCitizen),
		byImport: make(map[models.ImportID]map[models.CitizenID]models.StorageID),
		versions: make(map[models.ImportID]models.ImportVersion),
		edges:    make(map[models.StorageID]map[models.StorageID]struct{}),
	}
}

// InMemoryStore is a ports.Store view of one InMemoryTx transaction. A nil
// journal marks a read-only view.
type InMemoryStore struct {
	state   *memoryState
	journal *undoJournal
}

func (s *InMemoryStore) writable() error {
	if s.journal == nil {
		return errReadOnly
	}
	return nil
}

func (s *InMemoryStore) GetImportVersion(_ context.Context, importID models.ImportID) (models.ImportVersion, error) {
	if _, ok := s.state.byImport[importID]; !ok {
		return 0, sentinel.ErrNotFound
	}
	return s.state.versions[importID], nil
}

func (s *InMemoryStore) BumpImportVersion(_ context.Context, importID models.ImportID) (models.ImportVersion, error) {
	if err := s.writable(); err != nil {
		return 0, err
	}
	if _, ok := s.state.byImport[importID]; !ok {
		return 0, sentinel.ErrNotFound
	}
	prev := s.state.versions[importID]
	s.state.versions[importID] = prev + 1
	s.journal.record(func() { s.state.versions[importID] = prev })
	return prev + 1, nil
}

func (s *InMemoryStore) CreateImport(_ context.Context, citizens []models.Citizen, links []models.Link) (models.ImportID, error) {
	if err := s.writable(); err != nil {
		return 0, err
	}
	st := s.state
	lastImport, lastStorage := st.lastImport, st.lastStorage
	st.lastImport++
	importID := models.ImportID(st.lastImport)

	ids := make(map[models.CitizenID]models.StorageID, len(citizens))
	st.byImport[importID] = ids
	st.versions[importID] = 0
	s.journal.record(func() {
		for _, sid := range ids {
			delete(st.citizens, sid)
		}
		delete(st.byImport, importID)
		delete(st.versions, importID)
		st.lastImport, st.lastStorage = lastImport, lastStorage
	})

	for _, c := range citizens {
		if _, dup := ids[c.CitizenID]; dup {
			return 0, fmt.Errorf("%w: duplicate citizen_id %d", sentinel.ErrConflict, c.CitizenID)
		}
		st.lastStorage++
		sid := models.StorageID(st.lastStorage)
		ids[c.CitizenID] = sid
		c.Relatives = nil
		st.citizens[sid] = memoryCitizen{importID: importID, citizen: c}
	}

	edges := make([]models.Edge, 0, len(links))
	for _, l := range links {
		from, ok := ids[l.CitizenID]
		if !ok {
			return 0, fmt.Errorf("%w: citizen %d not inserted", sentinel.ErrConflict, l.CitizenID)
		}
		to, ok := ids[l.RelativeID]
		if !ok {
			return 0, fmt.Errorf("%w: relative %d not inserted", sentinel.ErrConflict, l.RelativeID)
		}
		edges = append(edges, models.Edge{CitizenRef: from, RelativeRef: to})
	}
	if err := s.AddRelativeEdges(context.Background(), edges); err != nil {
		return 0, err
	}
	return importID, nil
}

func (s *InMemoryStore) GetCitizens(_ context.Context, importID models.ImportID) ([]models.Citizen, error) {
	ids := s.state.byImport[importID]
	if len(ids) == 0 {
		return nil, sentinel.ErrNotFound
	}
	out := make([]models.Citizen, 0, len(ids))
	for _, sid := range ids {
		out = append(out, s.resolved(sid))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CitizenID < out[j].CitizenID })
	return out, nil
}

func (s *InMemoryStore) GetCitizen(_ context.Context, importID models.ImportID, citizenID models.CitizenID) (*models.Citizen, error) {
	sid, ok := s.state.byImport[importID][citizenID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := s.resolved(sid)
	return &c, nil
}

func (s *InMemoryStore) UpdateCitizenFields(_ context.Context, importID models.ImportID, citizenID models.CitizenID, patch *models.CitizenPatch) error {
	if err := s.writable(); err != nil {
		return err
	}
	sid, ok := s.state.byImport[importID][citizenID]
	if !ok {
		return sentinel.ErrNotFound
	}
	prev := s.state.citizens[sid]
	row := prev
	patch.ApplyFields(&row.citizen)
	s.state.citizens[sid] = row
	s.journal.record(func() { s.state.citizens[sid] = prev })
	return nil
}

func (s *InMemoryStore) GetRelativeStorageIDs(_ context.Context, storageID models.StorageID) ([]models.StorageID, error) {
	return s.relativesOf(storageID), nil
}

func (s *InMemoryStore) ResolveIDs(_ context.Context, importID models.ImportID) (*models.IDMap, error) {
	ids := s.state.byImport[importID]
	if len(ids) == 0 {
		return nil, sentinel.ErrNotFound
	}
	out := models.NewIDMap(len(ids))
	for cid, sid := range ids {
		out.Put(cid, sid)
	}
	return out, nil
}

func (s *InMemoryStore) AddRelativeEdges(_ context.Context, edges []models.Edge) error {
	if err := s.writable(); err != nil {
		return err
	}
	for _, e := range edges {
		if _, ok := s.state.citizens[e.CitizenRef]; !ok {
			return fmt.Errorf("%w: unknown citizen ref %d", sentinel.ErrConflict, e.CitizenRef)
		}
		if _, ok := s.state.citizens[e.RelativeRef]; !ok {
			return fmt.Errorf("%w: unknown relative ref %d", sentinel.ErrConflict, e.RelativeRef)
		}
		if _, dup := s.state.edges[e.CitizenRef][e.RelativeRef]; dup {
			return fmt.Errorf("%w: duplicate edge %d -> %d", sentinel.ErrConflict, e.CitizenRef, e.RelativeRef)
		}
		s.link(e.CitizenRef, e.RelativeRef)
		s.journal.record(func() { s.unlink(e.CitizenRef, e.RelativeRef) })
	}
	return nil
}

func (s *InMemoryStore) RemoveRelatives(_ context.Context, storageID models.StorageID, relatives []models.StorageID) error {
	if err := s.writable(); err != nil {
		return err
	}
	for _, rel := range relatives {
		for _, e := range []models.Edge{{CitizenRef: storageID, RelativeRef: rel}, {CitizenRef: rel, RelativeRef: storageID}} {
			if _, ok := s.state.edges[e.CitizenRef][e.RelativeRef]; !ok {
				continue
			}
			s.unlink(e.CitizenRef, e.RelativeRef)
			s.journal.record(func() { s.link(e.CitizenRef, e.RelativeRef) })
		}
	}
	return nil
}

func (s *InMemoryStore) link(from, to models.StorageID) {
	tos := s.state.edges[from]
	if tos == nil {
		tos = make(map[models.StorageID]struct{})
		s.state.edges[from] = tos
	}
	tos[to] = struct{}{}
}

func (s *InMemoryStore) unlink(from, to models.StorageID) {
	delete(s.state.edges[from], to)
	if len(s.state.edges[from]) == 0 {
		delete(s.state.edges, from)
	}
}

func (s *InMemoryStore) ListBirthInfos(_ context.Context, importID models.ImportID) ([]models.BirthInfo, error) {
	ids := s.state.byImport[importID]
	if len(ids) == 0 {
		return nil, sentinel.ErrNotFound
	}
	out := make([]models.BirthInfo, 0, len(ids))
	for cid, sid := range ids {
		out = append(out, models.BirthInfo{
			StorageID: sid,
			CitizenID: cid,
			BirthDate: s.state.citizens[sid].citizen.BirthDate,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StorageID < out[j].StorageID })
	return out, nil
}

func (s *InMemoryStore) ListEdges(_ context.Context, importID models.ImportID) ([]models.Edge, error) {
	out := make([]models.Edge, 0)
	for _, sid := range s.state.byImport[importID] {
		for _, rel := range s.relativesOf(sid) {
			out = append(out, models.Edge{CitizenRef: sid, RelativeRef: rel})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CitizenRef != out[j].CitizenRef {
			return out[i].CitizenRef < out[j].CitizenRef
		}
		return out[i].RelativeRef < out[j].RelativeRef
	})
	return out, nil
}

func (s *InMemoryStore) ListTownBirthDates(_ context.Context, importID models.ImportID) ([]models.TownBirthDate, error) {
	ids := s.state.byImport[importID]
	if len(ids) == 0 {
		return nil, sentinel.ErrNotFound
	}
	out := make([]models.TownBirthDate, 0, len(ids))
	for _, sid := range ids {
		c := s.state.citizens[sid].citizen
		out = append(out, models.TownBirthDate{Town: c.Town, BirthDate: c.BirthDate})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Town < out[j].Town })
	return out, nil
}

// resolved returns a copy of the citizen with relatives as sorted citizen_ids.
func (s *InMemoryStore) resolved(sid models.StorageID) models.Citizen {
	row := s.state.citizens[sid]
	c := row.citizen
	c.Relatives = make([]models.CitizenID, 0, len(s.state.edges[sid]))
	for _, rel := range s.relativesOf(sid) {
		c.Relatives = append(c.Relatives, s.state.citizens[rel].citizen.CitizenID)
	}
	sort.Slice(c.Relatives, func(i, j int) bool { return c.Relatives[i] < c.Relatives[j] })
	return c
}

func (s *InMemoryStore) relativesOf(sid models.StorageID) []models.StorageID {
	out := make([]models.StorageID, 0, len(s.state.edges[sid]))
	for rel := range s.state.edges[sid] {
		out = append(out, rel)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
