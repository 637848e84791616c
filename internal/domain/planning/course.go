package planning

import (
	"encoding/json"
	"strings"
)

type Lecture struct {
	Title       string `json:"title"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type Section struct {
	Name     string    `json:"section"`
	Lectures []Lecture `json:"lectures"`
}

// CurriculumItem is either a section with lectures or a legacy bare string.
// Items of any other shape decode to the zero value and are ignored downstream.
type CurriculumItem struct {
	Section *Section
	Text    string
}

func (it CurriculumItem) MarshalJSON() ([]byte, error) {
	if it.Section != nil {
		return json.Marshal(it.Section)
	}
	return json.Marshal(it.Text)
}

type Curriculum []CurriculumItem

func (c *Curriculum) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*c = CurriculumFromAny(raw)
	return nil
}

// CurriculumFromAny accepts decoded JSON (slices of maps and strings).
func CurriculumFromAny(v any) Curriculum {
	list, ok := v.([]any)
	if !ok {
		return Curriculum{}
	}
	out := make(Curriculum, 0, len(list))
	for _, raw := range list {
		switch item := raw.(type) {
		case string:
			out = append(out, CurriculumItem{Text: item})
		case map[string]any:
			lectures, hasLectures := item["lectures"]
			name, hasName := item["section"]
			if !hasName {
				name, hasName = item["name"]
			}
			if !hasName || !hasLectures {
				out = append(out, CurriculumItem{})
				continue
			}
			sec := &Section{Name: Str(name)}
			if ls, ok := lectures.([]any); ok {
				for _, l := range ls {
					sec.Lectures = append(sec.Lectures, lectureFromAny(l))
				}
			}
			out = append(out, CurriculumItem{Section: sec})
		default:
			out = append(out, CurriculumItem{})
		}
	}
	return out
}

func lectureFromAny(v any) Lecture {
	if m, ok := v.(map[string]any); ok {
		return Lecture{
			Title:       Str(m["title"]),
			Duration:    Str(m["duration"]),
			Description: Str(m["description"]),
		}
	}
	return Lecture{Title: Str(v)}
}

// Course is a chosen course or a generator-produced recommendation.
// Curriculum is read from "curriculum" and falls back to "syllabus".
type Course struct {
	ID            string     `json:"id,omitempty"`
	Title         string     `json:"title"`
	Provider      string     `json:"provider"`
	Link          string     `json:"link"`
	Curriculum    Curriculum `json:"curriculum"`
	TotalLectures *int       `json:"total_lectures,omitempty"`
	TotalDuration string     `json:"total_duration,omitempty"`
}

func (c *Course) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*c = CourseFromMap(m)
	return nil
}

func CourseFromMap(m map[string]any) Course {
	c := Course{
		ID:            Str(m["id"]),
		Title:         strings.TrimSpace(Str(m["title"])),
		Provider:      Str(m["provider"]),
		Link:          Str(m["link"]),
		TotalDuration: Str(m["total_duration"]),
	}
	cur, ok := m["curriculum"]
	if !ok {
		cur = m["syllabus"]
	}
	c.Curriculum = CurriculumFromAny(cur)
	if n, ok := Int(m["total_lectures"]); ok {
		c.TotalLectures = &n
	}
	return c
}
