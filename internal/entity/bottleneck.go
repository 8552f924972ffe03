package entity

// Severity ranks how much a bottleneck hurts the page.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank orders severities high first. Unknown severities sort last.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	}
	return 3
}

// Category is the closed set of bottleneck categories, one per detector.
type Category string

const (
	CategoryNetworkLatency    Category = "Network Latency"
	CategoryResourceSize      Category = "Resource Size"
	CategoryBlockingResources Category = "Blocking Resources"
	CategoryUnoptimizedImages Category = "Unoptimized Images"
	CategoryInefficientJS     Category = "Inefficient JavaScript"
	CategoryUnoptimizedCSS    Category = "Unoptimized CSS"
	CategoryFontLoading       Category = "Font Loading Issues"
	CategoryThirdPartyScripts Category = "Third-Party Scripts"
)

// Categories lists every category in detector order.
var Categories = []Category{
	CategoryNetworkLatency,
	CategoryResourceSize,
	CategoryBlockingResources,
	CategoryUnoptimizedImages,
	CategoryInefficientJS,
	CategoryUnoptimizedCSS,
	CategoryFontLoading,
	CategoryThirdPartyScripts,
}

// Suggestion is one remediation hint, optionally with a reference link.
type Suggestion struct {
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
}

// Bottleneck is a single detected performance problem.
type Bottleneck struct {
	Category    Category         `json:"category"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Severity    Severity         `json:"severity"`
	Resources   []ResourceRecord `json:"resources"`
	Suggestions []Suggestion     `json:"suggestions"`
}
