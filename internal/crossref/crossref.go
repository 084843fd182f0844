// Package crossref resolves the weak references between objectives, tasks
// and notes. References are plain IDs that may dangle after a delete;
// dangling references are skipped rather than reported.
package crossref

import (
	"regexp"
	"strings"

	"github.com/nhle/study-dashboard/internal/model"
)

// hashtagPattern matches #tags in free text (e.g., #golang, #week-3).
var hashtagPattern = regexp.MustCompile(`(?:^|\s)#([\p{L}\p{N}][\p{L}\p{N}_-]*)`)

// Links lists the entities related to one entity.
type Links struct {
	// Objective is the objective the entity belongs to, if any.
	Objective *model.Objective

	// Task is the task a note is attached to, if any.
	Task *model.Task

	Tasks []model.Task
	Notes []model.Note
}

// ExtractHashtags extracts all #tags from text, lower-cased and without
// the leading '#'. Returns a deduplicated list preserving the order of
// first occurrence.
func ExtractHashtags(text string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var result []string
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	return result
}

// ForObjective returns the tasks and notes attached to o. A task belongs
// to o when its goal is o or when o lists it among its related tasks.
func ForObjective(o model.Objective, tasks []model.Task, notes []model.Note) Links {
	related := make(map[string]bool, len(o.RelatedTasks))
	for _, id := range o.RelatedTasks {
		related[id] = true
	}

	var l Links
	for _, t := range tasks {
		if t.GoalID == o.ID || related[t.ID] {
			l.Tasks = append(l.Tasks, t)
		}
	}
	for _, n := range notes {
		if n.RelatedObjective == o.ID {
			l.Notes = append(l.Notes, n)
		}
	}
	return l
}

// ForTask returns the objective of t and the notes attached to it.
func ForTask(t model.Task, objectives []model.Objective, notes []model.Note) Links {
	var l Links
	l.Objective = findObjective(t.GoalID, objectives)
	for _, n := range notes {
		if n.RelatedTaskID == t.ID {
			l.Notes = append(l.Notes, n)
		}
	}
	return l
}

// ForNote returns the objective and task n refers to.
func ForNote(n model.Note, objectives []model.Objective, tasks []model.Task) Links {
	var l Links
	l.Objective = findObjective(n.RelatedObjective, objectives)
	if n.RelatedTaskID != "" {
		for i := range tasks {
			if tasks[i].ID == n.RelatedTaskID {
				t := tasks[i]
				l.Task = &t
				break
			}
		}
	}
	return l
}

func findObjective(id string, objectives []model.Objective) *model.Objective {
	if id == "" {
		return nil
	}
	for i := range objectives {
		if objectives[i].ID == id {
			o := objectives[i]
			return &o
		}
	}
	return nil
}
