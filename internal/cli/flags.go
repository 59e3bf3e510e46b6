package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/gumanista/hate-2-action/pkg/models"
)

func organizationFlags(fs *pflag.FlagSet) {
	fs.String("name", "", "organization name")
	fs.String("description", "", "free-form description")
	fs.String("website", "", "website URL; empty clears it")
	fs.String("contact-email", "", "contact email; empty clears it")
	fs.String("project-ids", "", "linked project ids, comma separated; empty or none unlinks all")
}

func applyOrganizationFlags(fs *pflag.FlagSet, p *models.OrganizationCreate) error {
	if fs.Changed("name") {
		p.Name, _ = fs.GetString("name")
	}
	if fs.Changed("description") {
		p.Description = stringFlag(fs, "description")
	}
	if fs.Changed("website") {
		p.Website = clearableFlag(fs, "website")
	}
	if fs.Changed("contact-email") {
		p.ContactEmail = clearableFlag(fs, "contact-email")
	}
	if fs.Changed("project-ids") {
		ids, err := idListFlag(fs, "project-ids")
		if err != nil {
			return err
		}
		p.ProjectIDs = ids
	}
	return nil
}

func projectFlags(fs *pflag.FlagSet) {
	fs.String("name", "", "project name")
	fs.String("description", "", "free-form description")
	fs.String("website", "", "website URL; empty clears it")
	fs.String("contact-email", "", "contact email; empty clears it")
	fs.String("organization-id", "", "owning organization id, or none")
}

func applyProjectFlags(fs *pflag.FlagSet, p *models.ProjectCreate) error {
	if fs.Changed("name") {
		p.Name, _ = fs.GetString("name")
	}
	if fs.Changed("description") {
		p.Description = stringFlag(fs, "description")
	}
	if fs.Changed("website") {
		p.Website = clearableFlag(fs, "website")
	}
	if fs.Changed("contact-email") {
		p.ContactEmail = clearableFlag(fs, "contact-email")
	}
	if fs.Changed("organization-id") {
		id, err := referenceFlag(fs, "organization-id")
		if err != nil {
			return err
		}
		p.OrganizationID = id
	}
	return nil
}

func problemFlags(fs *pflag.FlagSet) {
	fs.String("name", "", "problem name")
	fs.String("context", "", "background for the problem")
	fs.String("project-id", "", "owning project id, or none")
}

func applyProblemFlags(fs *pflag.FlagSet, p *models.ProblemCreate) error {
	if fs.Changed("name") {
		p.Name, _ = fs.GetString("name")
	}
	if fs.Changed("context") {
		p.Context = stringFlag(fs, "context")
	}
	if fs.Changed("project-id") {
		id, err := referenceFlag(fs, "project-id")
		if err != nil {
			return err
		}
		p.ProjectID = id
	}
	return nil
}

func solutionFlags(fs *pflag.FlagSet) {
	fs.String("name", "", "solution name")
	fs.String("context", "", "background for the solution")
	fs.String("problem-id", "", "problem id this solves, or none")
}

func applySolutionFlags(fs *pflag.FlagSet, p *models.SolutionCreate) error {
	if fs.Changed("name") {
		p.Name, _ = fs.GetString("name")
	}
	if fs.Changed("context") {
		p.Context = stringFlag(fs, "context")
	}
	if fs.Changed("problem-id") {
		id, err := referenceFlag(fs, "problem-id")
		if err != nil {
			return err
		}
		p.ProblemID = id
	}
	return nil
}

// stringFlag keeps the value as typed, including the empty string.
func stringFlag(fs *pflag.FlagSet, name string) *string {
	v, _ := fs.GetString(name)
	return &v
}

// clearableFlag maps a blank value to null.
func clearableFlag(fs *pflag.FlagSet, name string) *string {
	v, _ := fs.GetString(name)
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func referenceFlag(fs *pflag.FlagSet, name string) (*int64, error) {
	v, _ := fs.GetString(name)
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "none") {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 1 {
		return nil, fmt.Errorf("invalid --%s %q: must be a positive integer or none", name, v)
	}
	return &id, nil
}

// idListFlag never returns nil so an explicit empty list reaches the backend.
func idListFlag(fs *pflag.FlagSet, name string) ([]int64, error) {
	v, _ := fs.GetString(name)
	v = strings.TrimSpace(v)
	ids := []int64{}
	if v == "" || strings.EqualFold(v, "none") {
		return ids, nil
	}
	for _, part := range strings.Split(v, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id < 1 {
			return nil, fmt.Errorf("invalid --%s entry %q: must be a positive integer", name, part)
		}
		ids = append(ids, id)
	}
	return models.UniqueIDs(ids), nil
}
