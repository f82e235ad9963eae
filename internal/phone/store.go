package phone

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	ErrLoadFailed = errors.New("phone data could not be read in full")
	ErrSaveFailed = errors.New("phone data could not be saved")
	// ErrBlankRecord rejects a change that leaves a record with neither a
	// brand nor a model; such a row is skipped on the next load.
	ErrBlankRecord = errors.New("brand or model is required")
)

// Backend holds the full record set. Load returns every row in order,
// blank rows included, with position-derived identifiers; on failure it
// returns whatever it parsed before the error. Save replaces the full set.
type Backend interface {
	Load(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, recs []Record) error
	Ping(ctx context.Context) error
}

// LoadResult separates "no data" (Err nil, no records) from "read failed"
// (Err set, Records holds what was parsed before the failure).
type LoadResult struct {
	Records []Record
	Err     error
}

func (r LoadResult) Failed() bool { return r.Err != nil }

// Store reloads the backend on every call and rewrites it in full on every
// mutation. It keeps no state between calls.
type Store struct {
	backend Backend
	log     *zap.Logger
	metrics *Metrics
}

func NewStore(b Backend, log *zap.Logger, m *Metrics) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{backend: b, log: log, metrics: m}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

func (s *Store) LoadAll(ctx context.Context) LoadResult {
	all, err := s.backend.Load(ctx)

	recs := make([]Record, 0, len(all))
	for _, r := range all {
		if r.Blank() {
			continue
		}
		recs = append(recs, r)
	}

	if err != nil {
		s.log.Error("load phones failed", zap.Error(err), zap.Int("parsed", len(recs)))
		s.metrics.backendError("load")
		return LoadResult{Records: recs, Err: err}
	}

	s.metrics.observeRecords(len(recs))
	return LoadResult{Records: recs}
}

func (s *Store) SaveAll(ctx context.Context, recs []Record) error {
	if err := s.backend.Save(ctx, recs); err != nil {
		s.log.Error("save phones failed", zap.Error(err), zap.Int("records", len(recs)))
		s.metrics.backendError("save")
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	s.metrics.observeRecords(len(recs))
	return nil
}

func (s *Store) Get(ctx context.Context, id int) (Record, bool) {
	recs := s.LoadAll(ctx).Records
	if i := indexOf(recs, id); i >= 0 {
		return recs[i], true
	}
	return Record{}, false
}

// Create appends f under identifier len(records)+FirstID. Saving compacts
// away blank rows, so that identifier is also the record's position on the
// next load.
func (s *Store) Create(ctx context.Context, f Fields) (Record, error) {
	recs, err := s.loadForWrite(ctx)
	if err != nil {
		return Record{}, err
	}

	rec := Record{ID: len(recs) + FirstID, Fields: f}
	if err := s.SaveAll(ctx, append(recs, rec)); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Store) Update(ctx context.Context, id int, u Update) (Record, bool, error) {
	recs, err := s.loadForWrite(ctx)
	if err != nil {
		return Record{}, false, err
	}

	i := indexOf(recs, id)
	if i < 0 {
		return Record{}, false, nil
	}

	merged := u.Apply(recs[i].Fields)
	if merged.Blank() {
		return Record{}, true, ErrBlankRecord
	}

	recs[i].Fields = merged
	if err := s.SaveAll(ctx, recs); err != nil {
		return Record{}, true, err
	}
	return recs[i], true, nil
}

func (s *Store) Delete(ctx context.Context, id int) (Record, bool, error) {
	recs, err := s.loadForWrite(ctx)
	if err != nil {
		return Record{}, false, err
	}

	i := indexOf(recs, id)
	if i < 0 {
		return Record{}, false, nil
	}

	removed := recs[i]
	recs = append(recs[:i], recs[i+1:]...)
	if err := s.SaveAll(ctx, recs); err != nil {
		return Record{}, true, err
	}
	return removed, true, nil
}

// Replace discards the stored set and saves fields in its place, skipping
// blank entries. The returned records carry the identifiers they will have
// on the next load.
func (s *Store) Replace(ctx context.Context, fields []Fields) ([]Record, error) {
	recs := make([]Record, 0, len(fields))
	for _, f := range fields {
		if f.Blank() {
			continue
		}
		recs = append(recs, Record{ID: len(recs) + FirstID, Fields: f})
	}

	if err := s.SaveAll(ctx, recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// loadForWrite refuses to hand out a partially read set, so a mutation never
// writes back fewer rows than the backend holds.
func (s *Store) loadForWrite(ctx context.Context) ([]Record, error) {
	res := s.LoadAll(ctx)
	if res.Failed() {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, res.Err)
	}
	return res.Records, nil
}

func indexOf(recs []Record, id int) int {
	for i, r := range recs {
		if r.ID == id {
			return i
		}
	}
	return -1
}
