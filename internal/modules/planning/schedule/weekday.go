package schedule

import (
	"strings"
	"time"
)

// WeekdayNames are the Korean short names indexed from Monday.
var WeekdayNames = [7]string{"월", "화", "수", "목", "금", "토", "일"}

var weekdayAliases = map[string]time.Weekday{
	"월": time.Monday, "화": time.Tuesday, "수": time.Wednesday, "목": time.Thursday,
	"금": time.Friday, "토": time.Saturday, "일": time.Sunday,
	"mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday, "thu": time.Thursday,
	"fri": time.Friday, "sat": time.Saturday, "sun": time.Sunday,
}

// ParseWeekday accepts "월", "월요일", "Mon" or "Monday" in any case.
func ParseWeekday(name string) (time.Weekday, bool) {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.TrimSuffix(s, "요일")
	if wd, ok := weekdayAliases[s]; ok {
		return wd, true
	}
	if len(s) >= 3 {
		if wd, ok := weekdayAliases[s[:3]]; ok && strings.HasPrefix(strings.ToLower(wd.String()), s) {
			return wd, true
		}
	}
	return 0, false
}

// RestSet is the set of weekdays on which nothing is scheduled.
type RestSet map[time.Weekday]bool

// NewRestSet parses names, ignoring unknown ones. A set covering the whole
// week would leave nothing to schedule, so it collapses to empty.
func NewRestSet(names []string) RestSet {
	set := RestSet{}
	for _, n := range names {
		if wd, ok := ParseWeekday(n); ok {
			set[wd] = true
		}
	}
	if len(set) == 7 {
		return RestSet{}
	}
	return set
}

func (r RestSet) Has(t time.Time) bool { return r[t.Weekday()] }

// KoreanName returns the short Korean weekday name for t.
func KoreanName(t time.Time) string {
	return WeekdayNames[(int(t.Weekday())+6)%7]
}
