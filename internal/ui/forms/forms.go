// Package forms holds the interactive huh forms the CLI falls back to when
// required flags are missing.
package forms

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/nhle/study-dashboard/internal/model"
)

// formWidth keeps forms readable on wide terminals.
const formWidth = 72

// Login builds a form that fills creds. The email field is skipped when
// creds already carries one.
func Login(creds *model.Credentials) *huh.Form {
	var fields []huh.Field
	if strings.TrimSpace(creds.Email) == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&creds.Email).
			Validate(validateEmail))
	}
	fields = append(fields, huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&creds.Password).
		Validate(validateRequired("Password")))

	return huh.NewForm(huh.NewGroup(fields...)).WithWidth(formWidth)
}

// Task builds a form that fills in. objectives populate the goal selector.
func Task(in *model.TaskInput, objectives []model.Objective) *huh.Form {
	if in.Priority == "" {
		in.Priority = model.TaskPriorityMedium
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs to be done?").
			Value(&in.Title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&in.Description),
		huh.NewSelect[model.TaskPriority]().
			Title("Priority").
			Options(
				huh.NewOption("High", model.TaskPriorityHigh),
				huh.NewOption("Medium", model.TaskPriorityMedium),
				huh.NewOption("Low", model.TaskPriorityLow),
			).
			Value(&in.Priority),
		huh.NewInput().
			Title("Due Date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&in.DueDate).
			Validate(validateOptionalDate),
	}
	if goal := goalField(&in.GoalID, objectives); goal != nil {
		fields = append(fields, goal)
	}

	return huh.NewForm(huh.NewGroup(fields...)).WithWidth(formWidth)
}

// Objective builds a form that fills in.
func Objective(in *model.ObjectiveInput) *huh.Form {
	if in.Priority == "" {
		in.Priority = model.ObjectivePriorityMedium
	}

	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Title").
			Placeholder("What do you want to learn?").
			Value(&in.Title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Description").
			Value(&in.Description),
		huh.NewSelect[model.ObjectivePriority]().
			Title("Priority").
			Options(
				huh.NewOption("High", model.ObjectivePriorityHigh),
				huh.NewOption("Medium", model.ObjectivePriorityMedium),
				huh.NewOption("Low", model.ObjectivePriorityLow),
			).
			Value(&in.Priority),
		huh.NewInput().
			Title("Due Date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&in.DueDate).
			Validate(validateOptionalDate),
	)).WithWidth(formWidth)
}

// Note builds a form that fills in.
func Note(in *model.NoteInput, objectives []model.Objective) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Value(&in.Title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Content").
			CharLimit(20000).
			Value(&in.Content),
	}
	if goal := goalField(&in.RelatedObjective, objectives); goal != nil {
		fields = append(fields, goal)
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithWidth(formWidth)
}

func goalField(value *string, objectives []model.Objective) huh.Field {
	if len(objectives) == 0 {
		return nil
	}
	opts := []huh.Option[string]{huh.NewOption("None", "")}
	for _, o := range objectives {
		opts = append(opts, huh.NewOption(o.Title, o.ID))
	}
	return huh.NewSelect[string]().
		Title("Objective").
		Options(opts...).
		Value(value)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateEmail(s string) error {
	if err := validateRequired("Email")(s); err != nil {
		return err
	}
	if !strings.Contains(s, "@") {
		return fmt.Errorf("enter an email address")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if _, err := model.ParseDueDate(s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
