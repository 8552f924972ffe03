package metrics

// DetectorRecorder feeds detector outcomes into the Prometheus counters.
// Init must have been called.
type DetectorRecorder struct{}

func (DetectorRecorder) DetectorRun(detector string, _ int, err error) {
	status := "ok"
	if err != nil {
		status = "fault"
	}
	DetectorRunsTotal.WithLabelValues(detector, status).Inc()
}

// ObserveBottleneck counts one finding by category and severity.
func ObserveBottleneck(category, severity string) {
	BottlenecksDetectedTotal.WithLabelValues(category, severity).Inc()
}
