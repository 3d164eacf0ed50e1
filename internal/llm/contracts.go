package llm

import "context"

// SceneFields is the normalized entry shape we want from the completion
// service, the same shape the deterministic parser emits.
type SceneFields struct {
	SceneNumber   string `json:"scene_number"`
	Pages         string `json:"pages,omitempty"`
	IntExt        string `json:"int_ext"`
	DayNight      string `json:"day_night,omitempty"`
	SetLocation   string `json:"set_location,omitempty"`
	Description   string `json:"description,omitempty"`
	CastNumbers   []int  `json:"cast_numbers,omitempty"`
	EstimatedTime string `json:"estimated_time,omitempty"`
}

// DayExtraction is the strictly-scoped JSON object requested per chunk.
type DayExtraction struct {
	Scenes []SceneFields `json:"scenes"`
}

// ExtractRequest carries one chunk plus the known roster as reference
// context, so the service reuses exact canonical names and numbers.
type ExtractRequest struct {
	ChunkText string
	DayNumber int
	Roster    []string // "N. NAME" lines, canonical
	MaxTokens int
}

// ChunkExtractor is the interface the pipeline depends on for stage 2.
type ChunkExtractor interface {
	ExtractScenes(ctx context.Context, req ExtractRequest) (DayExtraction, []byte /*rawJSON*/, error)
}
