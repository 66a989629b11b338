// Package service orchestrates citizen imports: validation, relationship
// checks, transactional storage, reconciliation of patched relatives and the
// aggregate views.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"census/internal/citizen/kinship"
	"census/internal/citizen/metrics"
	"census/internal/citizen/models"
	"census/internal/citizen/ports"
	"census/internal/citizen/stats"
	"census/internal/citizen/validation"
	"census/pkg/attrs"
	dErrors "census/pkg/domain-errors"
	"census/pkg/platform/sentinel"
	"census/pkg/requestcontext"
)

const tracerName = "census/internal/citizen/service"

// View names used in metrics, cache accounting and logs.
const (
	ViewCitizens  = "citizens"
	ViewBirthdays = "birthdays"
	ViewTownAges  = "town_ages"
)

// Audit events.
const (
	EventImportCreated  = "import_created"
	EventCitizenPatched = "citizen_patched"
)

// Service implements the citizen use cases on top of a ports.Transactor.
type Service struct {
	tx      ports.Transactor
	cache   ports.ViewCache
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithViewCache enables caching of the aggregate views.
func WithViewCache(c ports.ViewCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithTracerProvider replaces the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		s.tracer = tp.Tracer(tracerName)
	}
}

// New constructs a Service.
func New(tx ports.Transactor, opts ...Option) *Service {
	s := &Service{tx: tx, tracer: otel.Tracer(tracerName)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateImport validates the batch and stores it atomically, returning the
// new import id. Nothing is stored when any citizen or relationship is
// invalid. Per-citizen field checks are skipped for requests built by
// validation.DecodeImport, which has already run them; relationship checks
// always run here.
func (s *Service) CreateImport(ctx context.Context, req *models.CreateImportRequest) (models.ImportID, error) {
	start := time.Now()
	defer s.observe(func(m *metrics.Metrics) { m.ObserveCreateImport(start) })
	ctx, span := s.tracer.Start(ctx, "citizen.CreateImport",
		trace.WithAttributes(attribute.Int("citizens.count", len(req.Citizens))))
	defer span.End()

	if len(req.Citizens) == 0 {
		err := validation.Single("citizens", validation.MsgEmptyList, "invalid import")
		return 0, s.fail(span, err)
	}
	if !req.FieldsChecked() {
		now := requestcontext.Now(ctx)
		errs := validation.Errors{}
		for i, c := range req.Citizens {
			errs.Merge(fmt.Sprintf("citizens.%d", i), validation.ValidateCitizen(c, now))
		}
		if err := errs.Err("invalid import"); err != nil {
			return 0, s.fail(span, err)
		}
	}

	links, err := kinship.Validate(req.Citizens)
	if err != nil {
		return 0, s.fail(span, err)
	}

	var importID models.ImportID
	err = s.tx.RunInTx(ctx, func(store ports.Store) error {
		var err error
		importID, err = store.CreateImport(ctx, req.Citizens, links)
		return err
	})
	if err != nil {
		return 0, s.fail(span, translate(err, 0, "failed to store import"))
	}

	span.SetAttributes(attribute.Int64("import.id", int64(importID)))
	s.logAudit(ctx, span, EventImportCreated,
		"import_id", int64(importID),
		"citizens", len(req.Citizens),
		"links", len(links),
	)
	s.observe(func(m *metrics.Metrics) { m.IncrementImportCreated(len(req.Citizens)) })
	return importID, nil
}

// PatchCitizen updates the sent fields of one citizen. When relatives are
// sent, the relatives graph is reconciled so that it stays symmetric. The
// merged citizen is returned.
func (s *Service) PatchCitizen(ctx context.Context, importID models.ImportID, citizenID models.CitizenID, patch *models.CitizenPatch) (*models.Citizen, error) {
	start := time.Now()
	defer s.observe(func(m *metrics.Metrics) { m.ObservePatchCitizen(start) })
	ctx, span := s.tracer.Start(ctx, "citizen.PatchCitizen", trace.WithAttributes(
		attribute.Int64("import.id", int64(importID)),
		attribute.Int64("citizen.id", int64(citizenID)),
	))
	defer span.End()

	if err := validation.ValidatePatch(patch, requestcontext.Now(ctx)).Err("invalid citizen patch"); err != nil {
		return nil, s.fail(span, err)
	}

	var (
		updated *models.Citizen
		diff    models.RelativesDiff
	)
	err := s.tx.RunInTx(ctx, func(store ports.Store) error {
		// serializes patches of one import and retires its cached views
		if _, err := store.BumpImportVersion(ctx, importID); err != nil {
			return err
		}
		ids, err := store.ResolveIDs(ctx, importID)
		if err != nil {
			return err
		}
		sid, ok := ids.StorageID(citizenID)
		if !ok {
			return errCitizenNotFound
		}

		if patch.Relatives != nil {
			diff, err = reconcile(ctx, store, sid, *patch.Relatives, ids)
			if err != nil {
				return err
			}
		}
		if patch.HasFieldUpdates() {
			if err := store.UpdateCitizenFields(ctx, importID, citizenID, patch); err != nil {
				return err
			}
		}

		updated, err = store.GetCitizen(ctx, importID, citizenID)
		return err
	})
	if err != nil {
		if errors.Is(err, errCitizenNotFound) {
			err = dErrors.Wrap(err, dErrors.CodeNotFound,
				fmt.Sprintf("citizen_id %d not found in import_id %d", citizenID, importID))
		}
		return nil, s.fail(span, translate(err, importID, "failed to update citizen"))
	}

	s.invalidate(ctx, importID)
	s.logAudit(ctx, span, EventCitizenPatched,
		"import_id", int64(importID),
		"citizen_id", int64(citizenID),
		"fields", len(patch.PresentFields()),
		"relatives_added", len(diff.Add),
		"relatives_removed", len(diff.Remove),
	)
	s.observe(func(m *metrics.Metrics) { m.IncrementCitizenPatched() })
	return updated, nil
}

// errCitizenNotFound marks a citizen_id missing from an existing import.
var errCitizenNotFound = errors.New("citizen not found")

// reconcile moves the citizen's relatives to requested, touching both
// directions of every changed edge.
func reconcile(ctx context.Context, store ports.Store, sid models.StorageID, requested []models.CitizenID, ids *models.IDMap) (models.RelativesDiff, error) {
	currentRefs, err := store.GetRelativeStorageIDs(ctx, sid)
	if err != nil {
		return models.RelativesDiff{}, err
	}
	current := make([]models.CitizenID, 0, len(currentRefs))
	for _, ref := range currentRefs {
		cid, ok := ids.CitizenID(ref)
		if !ok {
			return models.RelativesDiff{}, fmt.Errorf("%w: relative ref %d outside import", sentinel.ErrConflict, ref)
		}
		current = append(current, cid)
	}

	diff, err := kinship.Diff(sid, current, requested, ids)
	if err != nil {
		return models.RelativesDiff{}, err
	}
	if diff.IsEmpty() {
		return diff, nil
	}
	if err := store.RemoveRelatives(ctx, sid, diff.Remove); err != nil {
		return models.RelativesDiff{}, err
	}
	if err := store.AddRelativeEdges(ctx, diff.Add); err != nil {
		return models.RelativesDiff{}, err
	}
	return diff, nil
}

// ListCitizens returns every citizen of the import ordered by citizen_id.
func (s *Service) ListCitizens(ctx context.Context, importID models.ImportID) ([]models.Citizen, error) {
	start := time.Now()
	defer s.observe(func(m *metrics.Metrics) { m.ObserveView(ViewCitizens, start) })
	ctx, span := s.tracer.Start(ctx, "citizen.ListCitizens",
		trace.WithAttributes(attribute.Int64("import.id", int64(importID))))
	defer span.End()

	var citizens []models.Citizen
	err := s.tx.RunReadOnly(ctx, func(store ports.Store) error {
		var err error
		citizens, err = store.GetCitizens(ctx, importID)
		return err
	})
	if err != nil {
		return nil, s.fail(span, translate(err, importID, "failed to load citizens"))
	}
	span.SetAttributes(attribute.Int("citizens.count", len(citizens)))
	return citizens, nil
}

// Birthdays returns, per month, how many presents each citizen buys for
// relatives born in that month.
func (s *Service) Birthdays(ctx context.Context, importID models.ImportID) (models.BirthdayStats, error) {
	start := time.Now()
	defer s.observe(func(m *metrics.Metrics) { m.ObserveView(ViewBirthdays, start) })
	ctx, span := s.tracer.Start(ctx, "citizen.Birthdays",
		trace.WithAttributes(attribute.Int64("import.id", int64(importID))))
	defer span.End()

	var get func(models.ImportVersion) (models.BirthdayStats, bool, error)
	var set func(models.ImportVersion, models.BirthdayStats) error
	if s.cache != nil {
		get = func(v models.ImportVersion) (models.BirthdayStats, bool, error) {
			return s.cache.GetBirthdays(ctx, importID, v)
		}
		set = func(v models.ImportVersion, result models.BirthdayStats) error {
			return s.cache.SetBirthdays(ctx, importID, v, result)
		}
	}
	result, err := cachedView(ctx, s, span, ViewBirthdays, importID, get, set,
		func(store ports.Store) (models.BirthdayStats, error) {
			infos, err := store.ListBirthInfos(ctx, importID)
			if err != nil {
				return models.BirthdayStats{}, err
			}
			edges, err := store.ListEdges(ctx, importID)
			if err != nil {
				return models.BirthdayStats{}, err
			}
			return stats.BirthdayPresents(infos, edges), nil
		})
	if err != nil {
		return models.BirthdayStats{}, s.fail(span, translate(err, importID, "failed to compute birthdays"))
	}
	return result, nil
}

// TownAgePercentiles returns the 50th, 75th and 99th percentile of citizen
// ages per town, as of the request date.
func (s *Service) TownAgePercentiles(ctx context.Context, importID models.ImportID) ([]models.TownAgeStat, error) {
	start := time.Now()
	defer s.observe(func(m *metrics.Metrics) { m.ObserveView(ViewTownAges, start) })
	ctx, span := s.tracer.Start(ctx, "citizen.TownAgePercentiles",
		trace.WithAttributes(attribute.Int64("import.id", int64(importID))))
	defer span.End()

	now := requestcontext.Now(ctx).UTC()
	today := models.DateOf(now)

	var get func(models.ImportVersion) ([]models.TownAgeStat, bool, error)
	var set func(models.ImportVersion, []models.TownAgeStat) error
	if s.cache != nil {
		get = func(v models.ImportVersion) ([]models.TownAgeStat, bool, error) {
			return s.cache.GetTownAges(ctx, importID, v, today)
		}
		set = func(v models.ImportVersion, result []models.TownAgeStat) error {
			return s.cache.SetTownAges(ctx, importID, v, today, result)
		}
	}
	result, err := cachedView(ctx, s, span, ViewTownAges, importID, get, set,
		func(store ports.Store) ([]models.TownAgeStat, error) {
			rows, err := store.ListTownBirthDates(ctx, importID)
			if err != nil {
				return nil, err
			}
			return stats.TownAgePercentiles(rows, now), nil
		})
	if err != nil {
		return nil, s.fail(span, translate(err, importID, "failed to compute age percentiles"))
	}
	return result, nil
}

// cachedView serves a view from the cache when it holds an entry for the
// import's current version. On a miss, compute runs in one read-only
// snapshot together with the version read and the result is stored under
// the version of that snapshot. A patch committed meanwhile has raised the
// version, so a late write can only land under a version nobody asks for.
// With get and set nil the view is computed without caching.
func cachedView[T any](
	ctx context.Context,
	s *Service,
	span trace.Span,
	view string,
	importID models.ImportID,
	get func(models.ImportVersion) (T, bool, error),
	set func(models.ImportVersion, T) error,
	compute func(store ports.Store) (T, error),
) (T, error) {
	var zero T
	caching := get != nil && set != nil

	if caching {
		var current models.ImportVersion
		err := s.tx.RunReadOnly(ctx, func(store ports.Store) error {
			var err error
			current, err = store.GetImportVersion(ctx, importID)
			return err
		})
		if err != nil {
			return zero, err
		}
		cached, ok, err := get(current)
		s.recordLookup(ctx, view, ok, err)
		if ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cached, nil
		}
	}

	var (
		result  T
		version models.ImportVersion
	)
	err := s.tx.RunReadOnly(ctx, func(store ports.Store) error {
		var err error
		if caching {
			if version, err = store.GetImportVersion(ctx, importID); err != nil {
				return err
			}
		}
		result, err = compute(store)
		return err
	})
	if err != nil {
		return zero, err
	}

	if caching {
		span.SetAttributes(attribute.Int64("import.version", int64(version)))
		if err := set(version, result); err != nil {
			s.warn(ctx, "view cache write failed", "view", view, "import_id", int64(importID), "error", err)
		}
	}
	return result, nil
}

// translate maps store sentinels to domain errors. Errors that already carry
// a domain code pass through unchanged.
func translate(err error, importID models.ImportID, internalMsg string) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, fmt.Sprintf("import_id %d not found", importID))
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "data violates storage constraints")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "request timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
	}
}

// invalidate frees views of superseded versions. Freshness does not depend
// on it succeeding.
func (s *Service) invalidate(ctx context.Context, importID models.ImportID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, importID); err != nil {
		s.warn(ctx, "view cache invalidation failed", "import_id", int64(importID), "error", err)
	}
}

func (s *Service) recordLookup(ctx context.Context, view string, hit bool, err error) {
	result := metrics.CacheMiss
	switch {
	case err != nil:
		result = metrics.CacheError
		s.warn(ctx, "view cache read failed", "view", view, "error", err)
	case hit:
		result = metrics.CacheHit
	}
	s.observe(func(m *metrics.Metrics) { m.IncrementCacheLookup(view, result) })
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (s *Service) logAudit(ctx context.Context, span trace.Span, event string, attributes ...any) {
	span.AddEvent(event, trace.WithAttributes(attrs.ToOtel(attributes)...))
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, event, args...)
	}
}

func (s *Service) warn(ctx context.Context, msg string, args ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		args = append(args, "request_id", requestID)
	}
	s.logger.WarnContext(ctx, msg, args...)
}

func (s *Service) observe(fn func(m *metrics.Metrics)) {
	if s.metrics != nil {
		fn(s.metrics)
	}
}
