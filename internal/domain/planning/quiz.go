package planning

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Learner levels, also accepted as apply_recommendation's quiz_level.
const (
	LevelBeginner     = "초급"
	LevelIntermediate = "중급"
	LevelAdvanced     = "고급"
)

const QuizTypeOX = "OX"

type QuizItem struct {
	ID          int      `json:"id"`
	Type        string   `json:"type"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerKey   string   `json:"answerKey"`
	Explanation string   `json:"explanation"`
}

type QuizAnswer struct {
	ID         int    `json:"id"`
	UserAnswer string `json:"userAnswer"`
}

type QuizGrade struct {
	Total   int     `json:"total"`
	Correct int     `json:"correct"`
	Detail  []bool  `json:"detail"`
	Rate    float64 `json:"rate"`
	Level   string  `json:"level"`
}

// LevelForRate maps a correct-answer rate to a learner level: 0.8 and up is
// advanced, 0.6 and up intermediate.
func LevelForRate(rate float64) string {
	switch {
	case rate >= 0.8:
		return LevelAdvanced
	case rate >= 0.6:
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}

// GradeQuiz checks answers against the answer keys of items, ignoring case and
// surrounding space. An answer to an unknown id is wrong.
func GradeQuiz(items []QuizItem, answers []QuizAnswer) QuizGrade {
	keys := make(map[int]string, len(items))
	for _, it := range items {
		keys[it.ID] = strings.TrimSpace(it.AnswerKey)
	}
	g := QuizGrade{Total: len(answers), Detail: make([]bool, 0, len(answers))}
	for _, a := range answers {
		key, ok := keys[a.ID]
		right := ok && key != "" && strings.EqualFold(strings.TrimSpace(a.UserAnswer), key)
		if right {
			g.Correct++
		}
		g.Detail = append(g.Detail, right)
	}
	if g.Total > 0 {
		g.Rate = float64(g.Correct) / float64(g.Total)
	}
	g.Level = LevelForRate(g.Rate)
	return g
}

// DecodeQuizItems reads generator quiz entries. Entries without a question or
// with an answer key other than O or X are dropped; missing ids are numbered
// by position.
func DecodeQuizItems(v any) []QuizItem {
	list, _ := v.([]any)
	out := make([]QuizItem, 0, len(list))
	seen := map[int]bool{}
	for i, raw := range list {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		q := strings.TrimSpace(Str(m["question"]))
		key := strings.ToUpper(strings.TrimSpace(Str(m["answerKey"])))
		if q == "" || (key != "O" && key != "X") {
			continue
		}
		id, ok := Int(m["id"])
		if !ok || seen[id] {
			id = i + 1
			for seen[id] {
				id++
			}
		}
		seen[id] = true
		out = append(out, QuizItem{
			ID:          id,
			Type:        QuizTypeOX,
			Question:    q,
			Options:     []string{},
			AnswerKey:   key,
			Explanation: Str(m["explanation"]),
		})
	}
	return out
}

// QuizRecord holds the last quiz handed to a user, kept for grading.
type QuizRecord struct {
	UserID    string         `gorm:"column:user_id;primaryKey" json:"user_id"`
	Skill     string         `gorm:"column:skill" json:"skill"`
	Level     string         `gorm:"column:level" json:"level"`
	Items     datatypes.JSON `gorm:"column:items" json:"items"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (QuizRecord) TableName() string { return "quiz_sets" }

func NewQuizRecord(userID, skill, level string, items []QuizItem) (*QuizRecord, error) {
	body, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return &QuizRecord{UserID: userID, Skill: skill, Level: level, Items: datatypes.JSON(body)}, nil
}

func (r *QuizRecord) QuizItems() ([]QuizItem, error) {
	var items []QuizItem
	if len(r.Items) == 0 {
		return items, nil
	}
	err := json.Unmarshal(r.Items, &items)
	return items, err
}
