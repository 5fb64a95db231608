package core

// service.go is the session layer around the pipeline.
//
// Each uploaded file becomes a dataset owned by exactly one session, keyed
// by UUID. The registry is the only mutable state in the package and it is
// session-scoped: the pipeline functions themselves stay pure, and no table
// or derived view is ever shared across datasets. Idle datasets are evicted
// by a background sweeper after a configurable TTL.

import (
	"encoding/csv"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultDatasetTTL is how long an idle dataset survives before eviction.
const DefaultDatasetTTL = 30 * time.Minute

// DefaultSweepInterval is how often the sweeper scans for idle datasets.
const DefaultSweepInterval = 5 * time.Minute

// DefaultMaxDatasets bounds the number of simultaneously held datasets.
const DefaultMaxDatasets = 100

// Service owns the dataset registry and exposes the pipeline operations
// that web handlers and the CLI call.
type Service struct {
	maxDatasets int
	ttl         time.Duration

	mu       sync.RWMutex
	datasets map[string]*dataset

	done      chan struct{}
	closeOnce sync.Once
}

// dataset is one uploaded table plus its derived classification.
// lastUsed is guarded by Service.mu.
type dataset struct {
	info     DatasetInfo
	table    *Table
	class    Classification
	lastUsed time.Time
}

// NewService creates a Service and starts its eviction sweeper.
// Zero or negative arguments fall back to the package defaults.
// Call Close to stop the sweeper.
func NewService(maxDatasets int, ttl, sweepInterval time.Duration) *Service {
	if maxDatasets <= 0 {
		maxDatasets = DefaultMaxDatasets
	}
	if ttl <= 0 {
		ttl = DefaultDatasetTTL
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	s := &Service{
		maxDatasets: maxDatasets,
		ttl:         ttl,
		datasets:    make(map[string]*dataset),
		done:        make(chan struct{}),
	}

	go s.sweep(sweepInterval)

	return s
}

// Close stops the eviction sweeper and discards all datasets.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})

	s.mu.Lock()
	s.datasets = make(map[string]*dataset)
	s.mu.Unlock()
}

// sweep evicts datasets idle for longer than the TTL.
func (s *Service) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			for id, ds := range s.datasets {
				if time.Since(ds.lastUsed) > s.ttl {
					delete(s.datasets, id)
				}
			}
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

// CreateDataset loads the uploaded file, classifies its columns, and
// registers it as a new dataset. The returned DatasetInfo carries the ID
// used by all subsequent operations.
func (s *Service) CreateDataset(fileName string, r io.Reader) (DatasetInfo, error) {
	s.mu.RLock()
	atCapacity := len(s.datasets) >= s.maxDatasets
	s.mu.RUnlock()
	if atCapacity {
		return DatasetInfo{}, Errorf(KindTooManyDatasets,
			"dataset registry at capacity (%d)", s.maxDatasets)
	}

	table, err := Load(fileName, r)
	if err != nil {
		return DatasetInfo{}, err
	}

	class := Classify(table)

	info := DatasetInfo{
		ID:                 uuid.New().String(),
		FileName:           fileName,
		RowCount:           table.NumRows(),
		Columns:            table.Columns,
		NumericColumns:     NumericColumns(table, class),
		CategoricalColumns: CategoricalColumns(table, class),
		UploadedAt:         time.Now(),
	}

	// Pre-compute the default status domain when the conventional column
	// exists and is categorical, so the UI can populate its filter without
	// a second round trip.
	if name, ok := table.ColumnName(DefaultStatusColumn); ok && class[name] == ClassCategorical {
		info.StatusDomain = Domain(table, name)
	}

	ds := &dataset{
		info:     info,
		table:    table,
		class:    class,
		lastUsed: time.Now(),
	}

	s.mu.Lock()
	s.datasets[info.ID] = ds
	s.mu.Unlock()

	return info, nil
}

// get returns the dataset and refreshes its idle timer.
func (s *Service) get(id string) (*dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.datasets[id]
	if !ok {
		return nil, Errorf(KindDatasetNotFound, "dataset %s not found", id)
	}
	ds.lastUsed = time.Now()
	return ds, nil
}

// Dataset returns the summary for a dataset.
func (s *Service) Dataset(id string) (DatasetInfo, error) {
	ds, err := s.get(id)
	if err != nil {
		return DatasetInfo{}, err
	}
	return ds.info, nil
}

// DomainOf returns the distinct values of a categorical column.
func (s *Service) DomainOf(id, column string) ([]string, error) {
	ds, err := s.get(id)
	if err != nil {
		return nil, err
	}

	name, err := RequireColumn(ds.table, ds.class, column)
	if err != nil {
		return nil, err
	}
	return Domain(ds.table, name), nil
}

// View recomputes the filtered view for the dataset from the given spec.
func (s *Service) View(id string, spec FilterSpec) (*ViewResult, error) {
	ds, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return BuildView(ds.table, ds.class, spec)
}

// ExportCSV writes the filtered rows as CSV: header first, then rows in
// table order. The spec is applied exactly as in View.
func (s *Service) ExportCSV(id string, spec FilterSpec, w io.Writer) error {
	result, err := s.View(id, spec)
	if err != nil {
		return err
	}
	return result.WriteCSV(w)
}

// WriteCSV writes the view as CSV: header first, then the filtered rows.
// The result is a self-contained snapshot, so writing needs no further
// access to the dataset registry.
func (r *ViewResult) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Columns); err != nil {
		return err
	}
	for _, row := range r.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DeleteDataset discards a dataset. Deleting an unknown ID is an error so
// clients notice expired sessions.
func (s *Service) DeleteDataset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.datasets[id]; !ok {
		return Errorf(KindDatasetNotFound, "dataset %s not found", id)
	}
	delete(s.datasets, id)
	return nil
}

// Count returns the number of active datasets.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasets)
}
