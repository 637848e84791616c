package planning

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Generator output is loosely typed: numbers arrive as strings and the other
// way round. These helpers coerce decoded JSON values without failing.

func Str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func Int(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case json.Number:
		n, err := t.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(t), ",", ""))
		return n, err == nil
	}
	return 0, false
}

func Float(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(t), ",", ""), 64)
		return f, err == nil
	}
	return 0, false
}

func Bool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(t))
		return b
	}
	return false
}

func itoa(n int) string { return strconv.Itoa(n) }

// DecodePlan reads a generator-produced object into a Plan. Entries of the
// wrong shape are skipped rather than failing the whole plan.
func DecodePlan(m map[string]any) Plan {
	p := Plan{
		PlanName:      Str(m["plan_name"]),
		TotalDuration: Str(m["total_duration"]),
	}
	days, _ := m["daily_schedule"].([]any)
	for _, rawDay := range days {
		dm, ok := rawDay.(map[string]any)
		if !ok {
			continue
		}
		day := DaySchedule{Date: strings.TrimSpace(Str(dm["date"]))}
		tasks, _ := dm["tasks"].([]any)
		for _, rawTask := range tasks {
			tm, ok := rawTask.(map[string]any)
			if !ok {
				continue
			}
			day.Tasks = append(day.Tasks, decodeTask(tm))
		}
		p.DailySchedule = append(p.DailySchedule, day)
	}
	return p
}

func decodeTask(m map[string]any) Task {
	return Task{
		ID:               strings.TrimSpace(Str(m["id"])),
		Title:            Str(m["title"]),
		Description:      Str(m["description"]),
		Duration:         Str(m["duration"]),
		Completed:        Bool(m["completed"]),
		Section:          Str(m["section"]),
		TaskType:         TaskType(strings.ToLower(strings.TrimSpace(Str(m["task_type"])))),
		RelatedMaterials: DecodeMaterials(m["related_materials"]),
		ReviewMaterials:  DecodeMaterials(m["review_materials"]),
	}
}

func DecodeMaterials(v any) []Material {
	list, _ := v.([]any)
	out := make([]Material, 0, len(list))
	for _, raw := range list {
		mm, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Material{
			Title:       Str(mm["title"]),
			Type:        Str(mm["type"]),
			URL:         strings.TrimSpace(Str(mm["url"])),
			Description: Str(mm["description"]),
			Duration:    Str(mm["duration"]),
		})
	}
	return out
}
