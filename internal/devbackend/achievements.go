package devbackend

import (
	"context"

	"github.com/nhle/study-dashboard/internal/model"
)

// activity counts what a user has done so far.
type activity struct {
	objectives     int
	tasks          int
	completedTasks int
	notes          int
	summaries      int
	chats          int
}

type achievementRule struct {
	id          string
	title       string
	description string
	icon        string
	total       int
	count       func(activity) int
}

var achievementRules = []achievementRule{
	{"first-objective", "Goal Setter", "Create your first objective.", "target", 1,
		func(a activity) int { return a.objectives }},
	{"first-task", "Getting Started", "Create your first task.", "check", 1,
		func(a activity) int { return a.tasks }},
	{"five-completed", "On a Roll", "Complete five tasks.", "flame", 5,
		func(a activity) int { return a.completedTasks }},
	{"first-note", "Note Taker", "Write your first note.", "pencil", 1,
		func(a activity) int { return a.notes }},
	{"first-summary", "TL;DR", "Generate your first AI summary.", "sparkles", 1,
		func(a activity) int { return a.summaries }},
	{"first-chat", "Curious Mind", "Start a conversation with the assistant.", "chat", 1,
		func(a activity) int { return a.chats }},
}

// computeAchievements derives every achievement from the user's data.
func computeAchievements(ctx context.Context, st Store, userID string) ([]model.Achievement, error) {
	var a activity

	objectives, err := st.GetObjectives(ctx, userID)
	if err != nil {
		return nil, err
	}
	a.objectives = len(objectives)

	tasks, err := st.GetTasks(ctx, userID, TaskFilter{})
	if err != nil {
		return nil, err
	}
	a.tasks = len(tasks)
	for _, t := range tasks {
		if t.Status == model.TaskCompleted {
			a.completedTasks++
		}
	}

	notes, err := st.GetNotes(ctx, userID)
	if err != nil {
		return nil, err
	}
	a.notes = len(notes)
	for _, n := range notes {
		if n.HasAISummary {
			a.summaries++
		}
	}

	sessions, err := st.GetChatSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	a.chats = len(sessions)

	out := make([]model.Achievement, 0, len(achievementRules))
	for _, r := range achievementRules {
		progress := min(r.count(a), r.total)
		out = append(out, model.Achievement{
			ID:          r.id,
			Title:       r.title,
			Description: r.description,
			Icon:        r.icon,
			Unlocked:    progress >= r.total,
			Progress:    progress,
			Total:       r.total,
		})
	}
	return out, nil
}
