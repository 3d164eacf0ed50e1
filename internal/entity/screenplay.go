package entity

import "sort"

// SceneRecord is one screenplay scene derived from a slugline and the
// dialogue cues beneath it.
type SceneRecord struct {
	SceneNumber       string   `json:"scene_number"`
	Slugline          string   `json:"slugline"`
	IntExt            IntExt   `json:"int_ext"`
	Location          string   `json:"location"`
	TimeOfDay         string   `json:"time_of_day"`
	CharactersPresent []string `json:"characters_present"`
}

// CharacterRecord is one speaking character unified across surface forms.
// Variants keeps the raw cue spellings ("SARAH (V.O.)", "SARAH (CONT'D)")
// that resolved to the same normalized name.
type CharacterRecord struct {
	Name           string   `json:"name"`
	NormalizedName string   `json:"normalized_name"`
	ScenesAppeared []string `json:"scenes_appeared"`
	Variants       []string `json:"variants,omitempty"`
}

// ScreenplayModel is the screenplay-path analogue of ScheduleModel.
type ScreenplayModel struct {
	Scenes     []SceneRecord     `json:"scenes"`
	Characters []CharacterRecord `json:"characters"`
}

// SortCharacters orders characters by normalized name for stable output.
func (m *ScreenplayModel) SortCharacters() {
	sort.Slice(m.Characters, func(i, j int) bool {
		return m.Characters[i].NormalizedName < m.Characters[j].NormalizedName
	})
}
