package request

import (
	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/usecase"
)

// AnalyzeRequest carries one page's metrics and resources.
type AnalyzeRequest struct {
	SessionKey      string                  `json:"session_key" validate:"max=128"`
	URL             string                  `json:"url" validate:"omitempty,url"`
	Metrics         *entity.MetricsRecord   `json:"metrics"`
	Resources       []entity.ResourceRecord `json:"resources" validate:"max=5000"`
	SuggestionLevel string                  `json:"suggestion_level"`
}

func (r AnalyzeRequest) ToInput() usecase.AnalyzeInput {
	return usecase.AnalyzeInput{
		SessionKey: r.SessionKey,
		URL:        r.URL,
		Metrics:    r.Metrics,
		Resources:  r.Resources,
		Level:      r.SuggestionLevel,
	}
}

type BatchAnalyzeRequest struct {
	Items []AnalyzeRequest `json:"items" validate:"required,min=1,max=50,dive"`
}

// CollectRequest asks the service to load a page in the browser and analyze it.
type CollectRequest struct {
	URL        string `json:"url" validate:"required,url"`
	SessionKey string `json:"session_key" validate:"max=128"`
	Throttling string `json:"throttling" validate:"omitempty,oneof=none slow-3g fast-3g regular-4g"`
	Force      bool   `json:"force"`
}

func (r CollectRequest) ToInput() usecase.SubmitInput {
	return usecase.SubmitInput{
		URL:        r.URL,
		SessionKey: r.SessionKey,
		Throttling: r.Throttling,
		Force:      r.Force,
	}
}
