package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/repository"
)

type fakeSettingsRepo struct {
	mu      sync.Mutex
	stored  *entity.Settings
	getErr  error
	saveErr error
}

func (f *fakeSettingsRepo) Get(context.Context) (*entity.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.stored == nil {
		return nil, repository.ErrNotFound
	}
	s := *f.stored
	return &s, nil
}

func (f *fakeSettingsRepo) Save(_ context.Context, s *entity.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	c := *s
	f.stored = &c
	return nil
}

func (f *fakeSettingsRepo) Delete(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = nil
	return nil
}

type fakeReportRepo struct {
	mu      sync.Mutex
	reports []*entity.AnalysisReport
	saveErr error
	lookups int
}

func (f *fakeReportRepo) Save(_ context.Context, r *entity.AnalysisReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.reports = append(f.reports, r)
	return nil
}

func (f *fakeReportRepo) FindByID(_ context.Context, id string) (*entity.AnalysisReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	for _, r := range f.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeReportRepo) ListByURL(_ context.Context, url string, limit int) ([]*entity.AnalysisReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*entity.AnalysisReport{}
	for i := len(f.reports) - 1; i >= 0 && len(out) < limit; i-- {
		if url == "" || f.reports[i].URL == url {
			out = append(out, f.reports[i])
		}
	}
	return out, nil
}

func (f *fakeReportRepo) LatestBySession(_ context.Context, key string) (*entity.AnalysisReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.reports) - 1; i >= 0; i-- {
		if f.reports[i].SessionKey == key {
			return f.reports[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeReportRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reports)
}

type fakeSnapshotRepo struct {
	mu        sync.Mutex
	snapshots map[string]*entity.Snapshot
	reports   map[string]*entity.AnalysisReport
	pending   map[string]bool
	reportErr error
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{
		snapshots: map[string]*entity.Snapshot{},
		reports:   map[string]*entity.AnalysisReport{},
		pending:   map[string]bool{},
	}
}

func (f *fakeSnapshotRepo) SaveSnapshot(_ context.Context, s *entity.Snapshot, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots[s.SessionKey] = s
	return nil
}

func (f *fakeSnapshotRepo) GetSnapshot(_ context.Context, key string) (*entity.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.snapshots[key]; ok {
		return s, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeSnapshotRepo) SaveReport(_ context.Context, r *entity.AnalysisReport, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reportErr != nil {
		return f.reportErr
	}
	f.reports[r.SessionKey] = r
	delete(f.pending, r.SessionKey)
	return nil
}

func (f *fakeSnapshotRepo) GetReport(_ context.Context, key string) (*entity.AnalysisReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.reports[key]; ok {
		return r, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeSnapshotRepo) Clear(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.snapshots, key)
	delete(f.reports, key)
	delete(f.pending, key)
	return nil
}

func (f *fakeSnapshotRepo) MarkPending(_ context.Context, key string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[key] = true
	return nil
}

func (f *fakeSnapshotRepo) IsPending(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending[key], nil
}

func (f *fakeSnapshotRepo) ClearPending(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pending, key)
	return nil
}

type fakeQueue struct {
	mu       sync.Mutex
	jobs     []*entity.CollectionJob
	attempts map[string]int64
	popErr   error
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{attempts: map[string]int64{}}
}

func (f *fakeQueue) Push(_ context.Context, job *entity.CollectionJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeQueue) Pop(context.Context) (*entity.CollectionJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.popErr != nil {
		return nil, f.popErr
	}
	if len(f.jobs) == 0 {
		return nil, repository.ErrQueueEmpty
	}
	job := f.jobs[0]
	f.jobs = f.jobs[1:]
	return job, nil
}

func (f *fakeQueue) Size(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.jobs)), nil
}

func (f *fakeQueue) IncrementAttempts(_ context.Context, url string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[url]++
	return f.attempts[url], nil
}

func (f *fakeQueue) ResetAttempts(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.attempts, url)
	return nil
}

func (f *fakeQueue) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jobs)
}

type fakeFailedRepo struct {
	mu      sync.Mutex
	records map[string]*entity.FailedCollection
}

func newFakeFailedRepo() *fakeFailedRepo {
	return &fakeFailedRepo{records: map[string]*entity.FailedCollection{}}
}

func (f *fakeFailedRepo) SaveOrUpdate(_ context.Context, fc *entity.FailedCollection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[fc.URL] = fc
	return nil
}

func (f *fakeFailedRepo) FindBySession(_ context.Context, key string) (*entity.FailedCollection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fc := range f.records {
		if fc.SessionKey == key {
			return fc, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeFailedRepo) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, url)
	return nil
}

type fakeCollector struct {
	mu    sync.Mutex
	err   error
	calls []string
	snap  entity.Snapshot
}

func (f *fakeCollector) Collect(_ context.Context, url, throttling string) (*entity.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, throttling)
	if f.err != nil {
		return nil, f.err
	}
	s := f.snap
	s.URL = url
	return &s, nil
}

type fixedDetector []entity.Bottleneck

func (d fixedDetector) DetectBottlenecks(m *entity.MetricsRecord, _ []entity.ResourceRecord) []entity.Bottleneck {
	if m == nil {
		return []entity.Bottleneck{}
	}
	return append([]entity.Bottleneck(nil), d...)
}
