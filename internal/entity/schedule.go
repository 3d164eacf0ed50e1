package entity

import (
	"sort"

	"github.com/slatecrew/callsheet/constants"
)

// IntExt marks a scene as interior or exterior.
type IntExt string

const (
	Interior IntExt = "INT"
	Exterior IntExt = "EXT"
)

// CastMember is one entry in the production cast roster. Number is the
// schedule's integer shorthand for the member, unique across the roster.
type CastMember struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// Roster maps cast number to member.
type Roster map[int]CastMember

// SceneEntry is one schedule row describing a scene's location, cast and
// timing. SceneNumber is an alphanumeric identifier ("4A"), unique within its
// owning day. ShootOrder is assigned by parse order, not scene-number order,
// and is strictly increasing within a day.
type SceneEntry struct {
	SceneNumber   string `json:"scene_number"`
	Pages         string `json:"pages,omitempty"`
	IntExt        IntExt `json:"int_ext"`
	DayNight      string `json:"day_night"`
	SetLocation   string `json:"set_location"`
	Description   string `json:"description,omitempty"`
	CastNumbers   []int  `json:"cast_numbers"`
	EstimatedTime string `json:"estimated_time,omitempty"`
	ShootOrder    int    `json:"shoot_order"`
}

// ScheduleDay is one calendar day of the shooting schedule.
type ScheduleDay struct {
	DayNumber  int          `json:"day_number"`
	Date       string       `json:"date,omitempty"`
	DayOfWeek  string       `json:"day_of_week,omitempty"`
	Location   string       `json:"location,omitempty"`
	Sunrise    string       `json:"sunrise,omitempty"`
	Sunset     string       `json:"sunset,omitempty"`
	Notes      []string     `json:"notes,omitempty"`
	Scenes     []SceneEntry `json:"scenes"`
	TotalPages string       `json:"total_pages,omitempty"`
}

// ScheduleModel is the finished, read-only snapshot handed to callers.
type ScheduleModel struct {
	CastList         []CastMember           `json:"cast_list"`
	Days             []ScheduleDay          `json:"days"`
	TotalDays        int                    `json:"total_days"`
	ProcessingStatus constants.IngestStatus `json:"processing_status"`
}

// Day returns the day with the given number, or nil.
func (m *ScheduleModel) Day(n int) *ScheduleDay {
	for i := range m.Days {
		if m.Days[i].DayNumber == n {
			return &m.Days[i]
		}
	}
	return nil
}

// Unresolved returns cast numbers referenced by scenes but missing from the
// roster. Dangling references are surfaced this way, never treated as errors.
func (m *ScheduleModel) Unresolved() []int {
	known := make(map[int]struct{}, len(m.CastList))
	for _, c := range m.CastList {
		known[c.Number] = struct{}{}
	}
	seen := make(map[int]struct{})
	var out []int
	for _, d := range m.Days {
		for _, s := range d.Scenes {
			for _, n := range s.CastNumbers {
				if _, ok := known[n]; ok {
					continue
				}
				if _, dup := seen[n]; dup {
					continue
				}
				seen[n] = struct{}{}
				out = append(out, n)
			}
		}
	}
	sort.Ints(out)
	return out
}

// Clone returns a deep copy so the pipeline can keep mutating its working
// model after a snapshot has been handed out.
func (m *ScheduleModel) Clone() *ScheduleModel {
	out := &ScheduleModel{
		CastList:         append([]CastMember(nil), m.CastList...),
		Days:             make([]ScheduleDay, len(m.Days)),
		TotalDays:        m.TotalDays,
		ProcessingStatus: m.ProcessingStatus,
	}
	for i, d := range m.Days {
		nd := d
		nd.Notes = append([]string(nil), d.Notes...)
		nd.Scenes = make([]SceneEntry, len(d.Scenes))
		for j, s := range d.Scenes {
			ns := s
			ns.CastNumbers = append([]int(nil), s.CastNumbers...)
			nd.Scenes[j] = ns
		}
		out.Days[i] = nd
	}
	return out
}
