// Package routes mounts every page of the frontend on an echo instance.
package routes

import (
	"net/http"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/gumanista/hate-2-action/internal/forms"
	"github.com/gumanista/hate-2-action/internal/repositories/crud"
	messagerepo "github.com/gumanista/hate-2-action/internal/repositories/message"
	organizationrepo "github.com/gumanista/hate-2-action/internal/repositories/organization"
	problemrepo "github.com/gumanista/hate-2-action/internal/repositories/problem"
	projectrepo "github.com/gumanista/hate-2-action/internal/repositories/project"
	recommendationrepo "github.com/gumanista/hate-2-action/internal/repositories/recommendation"
	solutionrepo "github.com/gumanista/hate-2-action/internal/repositories/solution"
	"github.com/gumanista/hate-2-action/pkg/routes/message"
	"github.com/gumanista/hate-2-action/pkg/routes/organization"
	"github.com/gumanista/hate-2-action/pkg/routes/page"
	"github.com/gumanista/hate-2-action/pkg/routes/problem"
	"github.com/gumanista/hate-2-action/pkg/routes/processmessage"
	"github.com/gumanista/hate-2-action/pkg/routes/project"
	"github.com/gumanista/hate-2-action/pkg/routes/solution"
)

// Repositories is everything the pages read from and write to.
type Repositories struct {
	Organizations   organizationrepo.OrganizationRepository
	Projects        projectrepo.ProjectRepository
	Problems        problemrepo.ProblemRepository
	Solutions       solutionrepo.SolutionRepository
	Messages        messagerepo.MessageRepository
	Recommendations recommendationrepo.RecommendationRepository
}

// NewRepositories builds every repository over one backend client.
func NewRepositories(client crud.Doer, logger ectologger.Logger) Repositories {
	return Repositories{
		Organizations:   organizationrepo.NewRepository(client, logger),
		Projects:        projectrepo.NewRepository(client, logger),
		Problems:        problemrepo.NewRepository(client, logger),
		Solutions:       solutionrepo.NewRepository(client, logger),
		Messages:        messagerepo.NewRepository(client, logger),
		Recommendations: recommendationrepo.NewRepository(client, logger),
	}
}

// Register mounts the home page, the entity pages and the message pages.
// The submission guard is shared so a token is honoured across routes.
func Register(e *echo.Echo, repos Repositories, logger ectologger.Logger) {
	guard := forms.NewGuard()

	e.GET("/", Home)

	organization.NewHandler(repos.Organizations, repos.Projects, guard, logger).Register(e.Group("/organizations"))
	project.NewHandler(repos.Projects, repos.Organizations, repos.Problems, guard, logger).Register(e.Group("/projects"))
	problem.NewHandler(repos.Problems, repos.Projects, repos.Solutions, guard, logger).Register(e.Group("/problems"))
	solution.NewHandler(repos.Solutions, repos.Problems, guard, logger).Register(e.Group("/solutions"))
	message.NewHandler(repos.Messages).Register(e.Group("/messages"))
	processmessage.NewHandler(repos.Recommendations, guard, logger).Register(e)
}

// Home handles GET /
func Home(c echo.Context) error {
	return page.Render(c, http.StatusOK, "home", "", nil)
}
