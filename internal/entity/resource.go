package entity

// ResourceType is the coarse category of a network resource loaded by a page.
type ResourceType string

const (
	ResourceDocument   ResourceType = "document"
	ResourceStylesheet ResourceType = "stylesheet"
	ResourceScript     ResourceType = "script"
	ResourceImage      ResourceType = "image"
	ResourceFont       ResourceType = "font"
	ResourceXHR        ResourceType = "xhr"
	ResourceMedia      ResourceType = "media"
	ResourceOther      ResourceType = "other"
)

// Valid reports whether t is one of the known resource types.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceDocument, ResourceStylesheet, ResourceScript, ResourceImage,
		ResourceFont, ResourceXHR, ResourceMedia, ResourceOther:
		return true
	}
	return false
}

// TimingBreakdown splits a resource's load time in milliseconds.
// When derived from start/end only, Waiting and Downloading are a fixed
// 30/70 split of Total, not a measured time-to-first-byte.
type TimingBreakdown struct {
	Total       float64 `json:"total"`
	Waiting     float64 `json:"waiting"`
	Downloading float64 `json:"downloading"`
}

// ResourceRecord describes one network resource of a page load.
// StartTime and EndTime are milliseconds relative to navigation start.
type ResourceRecord struct {
	URL              string           `json:"url"`
	Type             ResourceType     `json:"type,omitempty"`
	Size             int64            `json:"size"`
	MimeType         string           `json:"mime_type,omitempty"`
	StartTime        *float64         `json:"start_time,omitempty"`
	EndTime          *float64         `json:"end_time,omitempty"`
	Duration         *float64         `json:"duration,omitempty"`
	TimingBreakdown  *TimingBreakdown `json:"timing_breakdown,omitempty"`
	IsRenderBlocking bool             `json:"is_render_blocking"`
}

// Bytes returns the transfer size, treating negative values as zero.
func (r ResourceRecord) Bytes() int64 {
	if r.Size < 0 {
		return 0
	}
	return r.Size
}

// Waiting returns the waiting portion of the timing breakdown, or zero.
func (r ResourceRecord) Waiting() float64 {
	if r.TimingBreakdown == nil {
		return 0
	}
	return r.TimingBreakdown.Waiting
}

// TotalTime returns the total load time and whether one is known.
func (r ResourceRecord) TotalTime() (float64, bool) {
	if r.TimingBreakdown == nil {
		return 0, false
	}
	return r.TimingBreakdown.Total, true
}

// Start returns the start time and whether it is known.
func (r ResourceRecord) Start() (float64, bool) {
	if r.StartTime == nil {
		return 0, false
	}
	return *r.StartTime, true
}
