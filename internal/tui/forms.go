package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"pharmacertlabs/pharmacert/internal/roles"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// ErrAborted is returned when a user cancels an interactive flow.
var ErrAborted = errors.New("aborted by user")

func accessibleMode() bool {
	return os.Getenv("ACCESSIBLE") != ""
}

// ConfirmClear asks before every audit record is deleted.
func ConfirmClear(count int) error {
	var confirm bool
	field := huh.NewConfirm().
		Title(fmt.Sprintf("Delete all %d audit records?", count)).
		Description("This cannot be undone.").
		Affirmative("Delete").
		Negative("Cancel").
		Value(&confirm)

	if err := runForm(accessibleMode(), huh.NewGroup(field)); err != nil {
		return err
	}
	if !confirm {
		return ErrAborted
	}
	return nil
}

// ProductInput is what the product form collects.
type ProductInput struct {
	Name        string
	Category    string
	Description string
}

// ProductForm collects the product fields, keeping any values already set.
func ProductForm(prefill ProductInput) (*ProductInput, error) {
	in := prefill
	var confirm bool

	if err := runForm(accessibleMode(),
		huh.NewGroup(
			huh.NewInput().
				Title("Product name").
				Value(&in.Name).
				Validate(required("name")),
			huh.NewInput().
				Title("Category").
				Value(&in.Category).
				Validate(required("category")),
			huh.NewText().
				Title("Description").
				Value(&in.Description),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Submit this product to the registry?").
				Value(&confirm),
		),
	); err != nil {
		return nil, err
	}
	if !confirm {
		return nil, ErrAborted
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	return &in, nil
}

// RoleForm picks a role for address, starting at current.
func RoleForm(address string, current roles.Role) (roles.Role, error) {
	selected := string(current)
	options := make([]huh.Option[string], len(roles.All))
	for i, r := range roles.All {
		options[i] = huh.NewOption(string(r), string(r))
	}

	if err := runForm(accessibleMode(),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Role for " + address).
				Options(options...).
				Value(&selected),
		),
	); err != nil {
		return "", err
	}
	return roles.ParseRole(selected)
}

// RunWithSpinner runs action behind a spinner written to stderr.
func RunWithSpinner(ctx context.Context, title string, action func(ctx context.Context) error) error {
	err := spinner.New().
		Title(title).
		Context(ctx).
		Accessible(accessibleMode()).
		Output(os.Stderr).
		ActionWithErr(action).
		Run()
	if err != nil && (errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled)) {
		return ErrAborted
	}
	return err
}

// runForm creates and runs a huh.Form, translating ErrUserAborted to ErrAborted.
func runForm(accessible bool, groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
