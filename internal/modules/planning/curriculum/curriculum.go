// Package curriculum normalizes course curricula into an ordered lesson list.
package curriculum

import (
	"fmt"
	"strings"

	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
)

// DefaultSection labels lessons that came from a legacy flat string list.
const DefaultSection = "기본"

type FlatLesson struct {
	Section     string
	Title       string
	Duration    string
	Description string
}

// Flatten walks sections then lectures in the order given. Items that are
// neither a section nor a bare string are skipped.
func Flatten(c domain.Curriculum) []FlatLesson {
	out := make([]FlatLesson, 0, len(c))
	for _, item := range c {
		switch {
		case item.Section != nil:
			for _, l := range item.Section.Lectures {
				out = append(out, FlatLesson{
					Section:     item.Section.Name,
					Title:       l.Title,
					Duration:    l.Duration,
					Description: l.Description,
				})
			}
		case item.Text != "":
			out = append(out, FlatLesson{Section: DefaultSection, Title: item.Text})
		}
	}
	return out
}

// Synthetic is the minimal curriculum used when a course has none.
func Synthetic(skill string) []FlatLesson {
	return []FlatLesson{
		{Section: "기초", Title: skill + " 기초 학습"},
		{Section: "기초", Title: skill + " 기초 실습"},
		{Section: "심화", Title: skill + " 심화 학습"},
		{Section: "심화", Title: skill + " 심화 실습"},
		{Section: "실습", Title: skill + " 프로젝트"},
	}
}

// Describe renders the curriculum as an indented outline for prompts.
func Describe(c domain.Curriculum, skill string) string {
	var b strings.Builder
	for _, item := range c {
		switch {
		case item.Section != nil:
			fmt.Fprintf(&b, "\n[%s]\n", item.Section.Name)
			for _, l := range item.Section.Lectures {
				if l.Duration == "" && l.Description == "" {
					fmt.Fprintf(&b, "  - %s\n", l.Title)
					continue
				}
				fmt.Fprintf(&b, "  - %s (%s) : %s\n", l.Title, l.Duration, l.Description)
			}
		case item.Text != "":
			fmt.Fprintf(&b, "  - %s\n", item.Text)
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return skill + " 기초부터 심화까지"
	}
	return b.String()
}
