package entity

// Network throttling presets understood by the collector.
const (
	ThrottleNone      = "none"
	ThrottleSlow3G    = "slow-3g"
	ThrottleFast3G    = "fast-3g"
	ThrottleRegular4G = "regular-4g"
)

// ValidThrottling reports whether preset names a known throttling preset.
// The empty string means no throttling.
func ValidThrottling(preset string) bool {
	switch preset {
	case "", ThrottleNone, ThrottleSlow3G, ThrottleFast3G, ThrottleRegular4G:
		return true
	}
	return false
}

// MetricToggles selects which metric ratings appear in a report.
type MetricToggles struct {
	PageLoad         bool `json:"page_load"`
	DOMContentLoaded bool `json:"dom_content_loaded"`
	FCP              bool `json:"fcp"`
	LCP              bool `json:"lcp"`
	TTI              bool `json:"tti"`
	TBT              bool `json:"tbt"`
}

// Settings is the user's analyzer configuration.
type Settings struct {
	AutoAnalysis      bool          `json:"auto_analysis"`
	NetworkThrottling string        `json:"network_throttling"`
	ShowMetrics       MetricToggles `json:"show_metrics"`
	SuggestionLevel   string        `json:"suggestion_level"`
}

// DefaultSettings returns the settings used when none are stored.
func DefaultSettings() Settings {
	return Settings{
		AutoAnalysis:      true,
		NetworkThrottling: ThrottleNone,
		ShowMetrics: MetricToggles{
			PageLoad:         true,
			DOMContentLoaded: true,
			FCP:              true,
			LCP:              true,
			TTI:              true,
			TBT:              true,
		},
		SuggestionLevel: "intermediate",
	}
}

// SettingsPatch is a partial settings update. Nil fields are left unchanged.
type SettingsPatch struct {
	AutoAnalysis      *bool          `json:"auto_analysis,omitempty"`
	NetworkThrottling *string        `json:"network_throttling,omitempty"`
	ShowMetrics       *MetricToggles `json:"show_metrics,omitempty"`
	SuggestionLevel   *string        `json:"suggestion_level,omitempty"`
}

// Apply merges p into s and returns the result.
func (s Settings) Apply(p SettingsPatch) Settings {
	if p.AutoAnalysis != nil {
		s.AutoAnalysis = *p.AutoAnalysis
	}
	if p.NetworkThrottling != nil {
		s.NetworkThrottling = *p.NetworkThrottling
	}
	if p.ShowMetrics != nil {
		s.ShowMetrics = *p.ShowMetrics
	}
	if p.SuggestionLevel != nil {
		s.SuggestionLevel = *p.SuggestionLevel
	}
	return s
}
