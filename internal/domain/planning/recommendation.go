package planning

import "encoding/json"

// Recommendation is a course suggested for a skill and level, with the
// display fields the course picker shows next to it.
type Recommendation struct {
	Course
	Instructor  string  `json:"instructor,omitempty"`
	Type        string  `json:"type,omitempty"`
	Weeks       int     `json:"weeks,omitempty"`
	Free        bool    `json:"free"`
	Rating      float64 `json:"rating,omitempty"`
	Students    string  `json:"students,omitempty"`
	Summary     string  `json:"summary,omitempty"`
	Reason      string  `json:"reason,omitempty"`
	Price       string  `json:"price,omitempty"`
	LevelDetail string  `json:"level_detail,omitempty"`
}

func (r *Recommendation) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*r = RecommendationFromMap(m)
	return nil
}

func RecommendationFromMap(m map[string]any) Recommendation {
	r := Recommendation{
		Course:      CourseFromMap(m),
		Instructor:  Str(m["instructor"]),
		Type:        Str(m["type"]),
		Free:        Bool(m["free"]),
		Students:    Str(m["students"]),
		Summary:     Str(m["summary"]),
		Reason:      Str(m["reason"]),
		Price:       Str(m["price"]),
		LevelDetail: Str(m["level_detail"]),
	}
	r.Weeks, _ = Int(m["weeks"])
	r.Rating, _ = Float(m["rating"])
	return r
}
