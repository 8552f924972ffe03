package detector

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/user/perf-insights/internal/entity"
)

// ErrDetectorFault is wrapped into the result of a detector that panicked.
var ErrDetectorFault = errors.New("detector fault")

// Recorder receives the outcome of every detector invocation.
type Recorder interface {
	DetectorRun(detector string, bottlenecks int, err error)
}

type nopRecorder struct{}

func (nopRecorder) DetectorRun(string, int, error) {}

// Result is the tagged outcome of one detector invocation.
type Result struct {
	Detector    string
	Bottlenecks []entity.Bottleneck
	Err         error
}

// Engine runs a fixed, ordered list of detectors and merges their findings.
type Engine struct {
	detectors []Detector
	logger    *zap.Logger
	recorder  Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithDetectors replaces the default detector list.
func WithDetectors(detectors ...Detector) Option {
	return func(e *Engine) {
		e.detectors = detectors
	}
}

// WithRecorder sets the recorder notified after each detector runs.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

// DefaultDetectors returns the eight built-in detectors in run order.
func DefaultDetectors() []Detector {
	return []Detector{
		NetworkLatency{},
		ResourceSize{},
		BlockingResources{},
		UnoptimizedImages{},
		JavaScript{},
		CSS{},
		FontLoading{},
		ThirdPartyScripts{},
	}
}

// NewEngine creates an engine with the default detectors.
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		detectors: DefaultDetectors(),
		logger:    logger.Named("engine"),
		recorder:  nopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Detectors returns the engine's detectors in run order.
func (e *Engine) Detectors() []Detector {
	out := make([]Detector, len(e.detectors))
	copy(out, e.detectors)
	return out
}

// Run invokes every detector and returns one result per detector, in order.
// It returns nil when either input is missing or there is nothing to analyze.
// An empty, non-nil resource list still lets metric-only checks run.
func (e *Engine) Run(metrics *entity.MetricsRecord, resources []entity.ResourceRecord) []Result {
	if metrics == nil || resources == nil || (metrics.IsEmpty() && len(resources) == 0) {
		return nil
	}
	results := make([]Result, 0, len(e.detectors))
	for _, d := range e.detectors {
		res := e.invoke(d, metrics, resources)
		if res.Err != nil {
			e.logger.Error("Detector failed",
				zap.String("detector", res.Detector),
				zap.Error(res.Err),
			)
		}
		e.recorder.DetectorRun(res.Detector, len(res.Bottlenecks), res.Err)
		results = append(results, res)
	}
	return results
}

// DetectBottlenecks runs every detector and returns all findings ordered by
// severity, high first. Findings of equal severity keep detector order.
func (e *Engine) DetectBottlenecks(metrics *entity.MetricsRecord, resources []entity.ResourceRecord) []entity.Bottleneck {
	var all []entity.Bottleneck
	for _, res := range e.Run(metrics, resources) {
		all = append(all, res.Bottlenecks...)
	}
	return SortBySeverity(all)
}

func (e *Engine) invoke(d Detector, metrics *entity.MetricsRecord, resources []entity.ResourceRecord) (res Result) {
	res.Detector = d.Name()
	defer func() {
		if r := recover(); r != nil {
			res.Bottlenecks = nil
			res.Err = fmt.Errorf("%w: %s: %v", ErrDetectorFault, res.Detector, r)
		}
	}()
	res.Bottlenecks = d.Detect(metrics, resources)
	return res
}

// SortBySeverity returns a stably sorted copy of bottlenecks, high first.
func SortBySeverity(bottlenecks []entity.Bottleneck) []entity.Bottleneck {
	sorted := make([]entity.Bottleneck, len(bottlenecks))
	copy(sorted, bottlenecks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity.Rank() < sorted[j].Severity.Rank()
	})
	return sorted
}
