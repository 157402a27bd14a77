package tui

import (
	"sort"
	"strings"

	taskdomain "github.com/example/taskhub/domain/task"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the ordering applied to the visible task list.
type SortKey string

const (
	SortCreated  SortKey = "created"
	SortPriority SortKey = "priority"
	SortTitle    SortKey = "title"
)

// FilterAll matches every value of a status or priority filter.
const FilterAll = "all"

// ViewState holds the independently tunable inputs of the derived view.
// DisplayGrid affects layout only, never the data.
type ViewState struct {
	Search      string
	Status      string
	Priority    string
	Sort        SortKey
	DisplayGrid bool
}

var titleCollator = collate.New(language.English, collate.IgnoreCase)

// priorityRank maps priorities to their sort weight. Unknown values sink.
func priorityRank(p taskdomain.Priority) int {
	switch p {
	case taskdomain.PriorityHigh:
		return 3
	case taskdomain.PriorityMedium:
		return 2
	case taskdomain.PriorityLow:
		return 1
	default:
		return 0
	}
}

// ApplyView derives the visible task list from the source collection and the
// view state. It is a pure function: the source slice is never mutated and
// every call recomputes the full result.
func ApplyView(tasks []taskdomain.Task, view ViewState) []taskdomain.Task {
	needle := strings.ToLower(strings.TrimSpace(view.Search))

	visible := make([]taskdomain.Task, 0, len(tasks))
	for _, t := range tasks {
		if needle != "" && !matchesSearch(t, needle) {
			continue
		}
		if view.Status != "" && view.Status != FilterAll && string(t.Status) != view.Status {
			continue
		}
		if view.Priority != "" && view.Priority != FilterAll && string(t.Priority) != view.Priority {
			continue
		}
		visible = append(visible, t)
	}

	switch view.Sort {
	case SortPriority:
		sort.SliceStable(visible, func(i, j int) bool {
			return priorityRank(visible[i].Priority) > priorityRank(visible[j].Priority)
		})
	case SortTitle:
		sort.SliceStable(visible, func(i, j int) bool {
			return titleCollator.CompareString(visible[i].Name, visible[j].Name) < 0
		})
	default:
		sort.SliceStable(visible, func(i, j int) bool {
			return visible[i].CreatedAt.Before(visible[j].CreatedAt)
		})
	}

	return visible
}

func matchesSearch(t taskdomain.Task, needle string) bool {
	return strings.Contains(strings.ToLower(t.Name), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle) ||
		strings.Contains(strings.ToLower(t.Project), needle)
}
