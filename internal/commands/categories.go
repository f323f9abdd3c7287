package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"fintrack/internal/config"
	"fintrack/internal/exitcode"
	"fintrack/internal/output"
	"fintrack/internal/router"
	"fintrack/internal/service"
	"fintrack/internal/session"
)

func init() {
	Register(&CategoriesCmd{})
	Register(&AddCategoryCmd{})
	Register(&RmCategoryCmd{})
}

// CategoriesCmd implements the categories command.
type CategoriesCmd struct{}

func (c *CategoriesCmd) Name() string      { return "categories" }
func (c *CategoriesCmd) Aliases() []string { return nil }
func (c *CategoriesCmd) Synopsis() string  { return "List categories" }
func (c *CategoriesCmd) Usage() string     { return "fintrack categories [common flags]" }
func (c *CategoriesCmd) Route() string     { return router.Categories }

func (c *CategoriesCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CategoriesCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	categories, err := svc.ListCategories(ctx)
	if err != nil {
		return reportBackendError(errOut, err)
	}

	if len(categories) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no categories found")
	}
	for _, cat := range categories {
		output.FormatCategory(out, cat)
	}
	return exitcode.Success
}

// AddCategoryCmd implements the addcategory command.
type AddCategoryCmd struct{}

func (c *AddCategoryCmd) Name() string      { return "addcategory" }
func (c *AddCategoryCmd) Aliases() []string { return nil }
func (c *AddCategoryCmd) Synopsis() string  { return "Create a category" }
func (c *AddCategoryCmd) Usage() string     { return "fintrack addcategory [common flags] <name...>" }
func (c *AddCategoryCmd) Route() string     { return router.Categories }

func (c *AddCategoryCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCategoryCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	// Join args to form the name
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		fmt.Fprintln(errOut, "error: category name required")
		return exitcode.UserError
	}

	if _, err := svc.CreateCategory(ctx, name); err != nil {
		if errors.Is(err, service.ErrConflict) {
			fmt.Fprintf(errOut, "error: category already exists: %s\n", name)
			return exitcode.UserError
		}
		return reportBackendError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// RmCategoryCmd implements the rmcategory command.
type RmCategoryCmd struct{}

func (c *RmCategoryCmd) Name() string      { return "rmcategory" }
func (c *RmCategoryCmd) Aliases() []string { return nil }
func (c *RmCategoryCmd) Synopsis() string  { return "Delete a category" }
func (c *RmCategoryCmd) Usage() string     { return "fintrack rmcategory [common flags] <category-id>" }
func (c *RmCategoryCmd) Route() string     { return router.Categories }

func (c *RmCategoryCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCategoryCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	id, ok := singleID("category", args, errOut)
	if !ok {
		return exitcode.UserError
	}

	if err := svc.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			fmt.Fprintf(errOut, "error: category not found: %d\n", id)
			return exitcode.UserError
		}
		return reportBackendError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
