package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Gobusters/ectologger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gumanista/hate-2-action/internal/repositories/crud"
	"github.com/gumanista/hate-2-action/internal/repositories/organization"
	"github.com/gumanista/hate-2-action/internal/repositories/problem"
	"github.com/gumanista/hate-2-action/internal/repositories/project"
	"github.com/gumanista/hate-2-action/internal/repositories/solution"
	"github.com/gumanista/hate-2-action/pkg/models"
)

// entityRepository is the CRUD surface shared by the writable repositories.
type entityRepository[T, C, U any] interface {
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, payload C) (*T, error)
	Update(ctx context.Context, id int64, payload U) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// entity describes how one writable resource maps onto commands and flags.
type entity[T, C, U any] struct {
	name    string
	short   string
	newRepo func(client crud.Doer, logger ectologger.Logger) entityRepository[T, C, U]
	// flags registers the writable fields; apply copies the changed ones.
	flags    func(fs *pflag.FlagSet)
	apply    func(fs *pflag.FlagSet, payload *C) error
	toCreate func(record T) C
	update   func(policy models.UpdatePolicy, before, after C) U
}

func entityCommands(app *App) []*cobra.Command {
	return []*cobra.Command{
		entity[models.Organization, models.OrganizationCreate, models.OrganizationUpdate]{
			name:  "organizations",
			short: "Manage organizations",
			newRepo: func(client crud.Doer, logger ectologger.Logger) entityRepository[models.Organization, models.OrganizationCreate, models.OrganizationUpdate] {
				return organization.NewRepository(client, logger)
			},
			flags:    organizationFlags,
			apply:    applyOrganizationFlags,
			toCreate: models.Organization.ToCreatePayload,
			update:   models.NewOrganizationUpdate,
		}.command(app),
		entity[models.Project, models.ProjectCreate, models.ProjectUpdate]{
			name:  "projects",
			short: "Manage projects",
			newRepo: func(client crud.Doer, logger ectologger.Logger) entityRepository[models.Project, models.ProjectCreate, models.ProjectUpdate] {
				return project.NewRepository(client, logger)
			},
			flags:    projectFlags,
			apply:    applyProjectFlags,
			toCreate: models.Project.ToCreatePayload,
			update:   models.NewProjectUpdate,
		}.command(app),
		entity[models.Problem, models.ProblemCreate, models.ProblemUpdate]{
			name:  "problems",
			short: "Manage problems",
			newRepo: func(client crud.Doer, logger ectologger.Logger) entityRepository[models.Problem, models.ProblemCreate, models.ProblemUpdate] {
				return problem.NewRepository(client, logger)
			},
			flags:    problemFlags,
			apply:    applyProblemFlags,
			toCreate: models.Problem.ToCreatePayload,
			update:   models.NewProblemUpdate,
		}.command(app),
		entity[models.Solution, models.SolutionCreate, models.SolutionUpdate]{
			name:  "solutions",
			short: "Manage solutions",
			newRepo: func(client crud.Doer, logger ectologger.Logger) entityRepository[models.Solution, models.SolutionCreate, models.SolutionUpdate] {
				return solution.NewRepository(client, logger)
			},
			flags:    solutionFlags,
			apply:    applySolutionFlags,
			toCreate: models.Solution.ToCreatePayload,
			update:   models.NewSolutionUpdate,
		}.command(app),
	}
}

func (e entity[T, C, U]) command(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   e.name,
		Short: e.short,
	}
	repo := func() entityRepository[T, C, U] {
		return e.newRepo(app.client, app.logger)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := repo().List(cmd.Context())
			if err != nil {
				return err
			}
			return app.print(items)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			item, err := repo().GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return app.print(item)
		},
	})

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a record from flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var payload C
			if err := e.apply(cmd.Flags(), &payload); err != nil {
				return err
			}
			created, err := repo().Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			return app.print(created)
		},
	}
	e.flags(create.Flags())
	_ = create.MarkFlagRequired("name")
	cmd.AddCommand(create)

	var policy string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a record; only the flags given are sent unless --policy full-replace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := models.ParseUpdatePolicy(policy)
			if err != nil {
				return err
			}

			r := repo()
			original, err := r.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			before := e.toCreate(*original)
			after := e.toCreate(*original)
			if err := e.apply(cmd.Flags(), &after); err != nil {
				return err
			}

			updated, err := r.Update(cmd.Context(), id, e.update(p, before, after))
			if err != nil {
				return err
			}
			return app.print(updated)
		},
	}
	e.flags(update.Flags())
	update.Flags().StringVar(&policy, "policy", models.ChangedOnly.String(), "update policy: changed-only or full-replace")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := repo().Delete(cmd.Context(), id); err != nil {
				return err
			}
			return app.print(map[string]any{"deleted": true, "id": id})
		},
	})

	return cmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", raw)
	}
	return id, nil
}
