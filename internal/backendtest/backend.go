// Package backendtest runs an in-memory stand-in for the hate-2-action REST
// backend. It speaks the same JSON shapes, checks the API key, expands
// relations on reads and records every request it serves.
package backendtest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/gumanista/hate-2-action/pkg/apiclient"
	"github.com/gumanista/hate-2-action/pkg/models"
)

const DefaultAPIKey = "test-api-key"

// Request is one call the backend served.
type Request struct {
	Method string
	Path   string
	APIKey string
	// ContentType is empty when the client sent none
	ContentType string
	Body        []byte
}

// JSON decodes the recorded body as a generic object.
func (r Request) JSON() map[string]any {
	out := map[string]any{}
	_ = json.Unmarshal(r.Body, &out)
	return out
}

type record = map[string]any

type collection struct {
	name    string
	key     string
	records map[int64]record
}

type failure struct {
	status int
	detail string
}

type Backend struct {
	APIKey string

	mu              sync.Mutex
	nextID          int64
	collections     map[string]*collection
	messages        map[int64]models.Message
	requests        []Request
	failures        map[string]failure
	processResponse *models.Response
	flat            bool

	server *httptest.Server
}

// New starts a backend and stops it when the test ends.
func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		APIKey:   DefaultAPIKey,
		nextID:   1,
		messages: map[int64]models.Message{},
		failures: map[string]failure{},
		collections: map[string]*collection{
			"organizations": {name: "organizations", key: "organization_id", records: map[int64]record{}},
			"projects":      {name: "projects", key: "project_id", records: map[int64]record{}},
			"problems":      {name: "problems", key: "problem_id", records: map[int64]record{}},
			"solutions":     {name: "solutions", key: "solution_id", records: map[int64]record{}},
		},
	}
	b.server = httptest.NewServer(b.router())
	t.Cleanup(b.server.Close)
	return b
}

func (b *Backend) URL() string {
	return b.server.URL
}

// SetNextID makes the next created record receive id.
func (b *Backend) SetNextID(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID = id
}

// Fail makes every method+path call answer status with detail until cleared
// with status 0.
func (b *Backend) Fail(method, path string, status int, detail string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status == 0 {
		delete(b.failures, method+" "+path)
		return
	}
	b.failures[method+" "+path] = failure{status: status, detail: detail}
}

// SetExpandRelations(false) makes every response carry only the record's own
// columns, as the production backend does.
func (b *Backend) SetExpandRelations(expand bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.flat = !expand
}

// SetProcessResponse fixes the reply of /process-message.
func (b *Backend) SetProcessResponse(resp models.Response) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.processResponse = &resp
}

func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// LastRequest returns the most recent call matching method and path.
func (b *Backend) LastRequest(method, path string) (Request, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requests) - 1; i >= 0; i-- {
		if b.requests[i].Method == method && b.requests[i].Path == path {
			return b.requests[i], true
		}
	}
	return Request{}, false
}

func (b *Backend) SeedOrganization(o models.Organization) int64 {
	return b.seed("organizations", o, o.OrganizationID)
}

func (b *Backend) SeedProject(p models.Project) int64 {
	return b.seed("projects", p, p.ProjectID)
}

func (b *Backend) SeedProblem(p models.Problem) int64 {
	return b.seed("problems", p, p.ProblemID)
}

func (b *Backend) SeedSolution(s models.Solution) int64 {
	return b.seed("solutions", s, s.SolutionID)
}

func (b *Backend) SeedMessage(m models.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages[m.MessageID] = m
}

func (b *Backend) seed(name string, v any, id int64) int64 {
	data, _ := json.Marshal(v)
	rec := record{}
	_ = json.Unmarshal(data, &rec)
	for _, expanded := range []string{"projects", "organization", "problems", "project", "solutions", "problem"} {
		delete(rec, expanded)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	c := b.collections[name]
	if id == 0 {
		id = b.allocateID()
	} else if id >= b.nextID {
		b.nextID = id + 1
	}
	rec[c.key] = id
	c.records[id] = rec
	return id
}

func (b *Backend) allocateID() int64 {
	id := b.nextID
	b.nextID++
	return id
}

func (b *Backend) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(b.record, b.authorize, b.inject)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "hate-2-action API"})
	})

	for name := range b.collections {
		name := name
		e.GET("/"+name, func(c echo.Context) error { return b.list(c, name) })
		e.POST("/"+name, func(c echo.Context) error { return b.create(c, name) })
		e.GET("/"+name+"/:id", func(c echo.Context) error { return b.get(c, name) })
		e.PUT("/"+name+"/:id", func(c echo.Context) error { return b.update(c, name) })
		e.DELETE("/"+name+"/:id", func(c echo.Context) error { return b.remove(c, name) })
	}

	e.GET("/messages", b.listMessages)
	e.GET("/messages/:id", b.getMessage)
	e.POST("/process-message", b.process)

	return e
}

func (b *Backend) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		body, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(strings.NewReader(string(body)))

		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:      req.Method,
			Path:        req.URL.Path,
			APIKey:      req.Header.Get("X-API-Key"),
			ContentType: req.Header.Get("Content-Type"),
			Body:        body,
		})
		b.mu.Unlock()

		return next(c)
	}
}

func (b *Backend) authorize(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get("X-API-Key") != b.APIKey {
			return detail(c, http.StatusUnauthorized, "Invalid or missing API Key")
		}
		return next(c)
	}
}

func (b *Backend) inject(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		b.mu.Lock()
		f, ok := b.failures[c.Request().Method+" "+c.Request().URL.Path]
		b.mu.Unlock()
		if ok {
			return detail(c, f.status, f.detail)
		}
		return next(c)
	}
}

func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]any{"detail": msg})
}

func validationFailed(c echo.Context, field, msg string) error {
	return c.JSON(http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{{"loc": []string{"body", field}, "msg": msg, "type": "value_error"}},
	})
}

func notFound(c echo.Context, name string) error {
	singular := strings.TrimSuffix(name, "s")
	return detail(c, http.StatusNotFound, strings.ToUpper(singular[:1])+singular[1:]+" not found")
}

func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil
}

func (b *Backend) list(c echo.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	col := b.collections[name]
	ids := make([]int64, 0, len(col.records))
	for id := range col.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]record, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.expand(name, id))
	}
	return c.JSON(http.StatusOK, out)
}

func (b *Backend) get(c echo.Context, name string) error {
	id, ok := parseID(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	if !ok || b.collections[name].records[id] == nil {
		return notFound(c, name)
	}
	return c.JSON(http.StatusOK, b.expand(name, id))
}

func (b *Backend) create(c echo.Context, name string) error {
	body := record{}
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return detail(c, http.StatusBadRequest, "invalid JSON body")
	}
	if n, _ := body["name"].(string); strings.TrimSpace(n) == "" {
		return validationFailed(c, "name", "field required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	col := b.collections[name]
	projectIDs, hasProjectIDs := body["project_ids"]
	delete(body, "project_ids")

	id := b.allocateID()
	body[col.key] = id
	body["created_at"] = fmt.Sprintf("2024-01-01T00:00:%02d", id%60)
	if name == "problems" {
		body["is_processed"] = false
	}
	col.records[id] = body
	if name == "organizations" && hasProjectIDs {
		b.linkProjects(id, projectIDs)
	}
	return c.JSON(http.StatusOK, b.expand(name, id))
}

func (b *Backend) update(c echo.Context, name string) error {
	id, ok := parseID(c)
	body := record{}
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return detail(c, http.StatusBadRequest, "invalid JSON body")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	col := b.collections[name]
	existing := col.records[id]
	if !ok || existing == nil {
		return notFound(c, name)
	}
	if n, present := body["name"]; present {
		if s, _ := n.(string); strings.TrimSpace(s) == "" {
			return validationFailed(c, "name", "field required")
		}
	}

	projectIDs, hasProjectIDs := body["project_ids"]
	delete(body, "project_ids")
	for k, v := range body {
		if k == col.key || k == "created_at" || k == "is_processed" {
			continue
		}
		existing[k] = v
	}
	if name == "organizations" && hasProjectIDs {
		b.linkProjects(id, projectIDs)
	}
	return c.JSON(http.StatusOK, b.expand(name, id))
}

func (b *Backend) remove(c echo.Context, name string) error {
	id, ok := parseID(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	col := b.collections[name]
	if !ok || col.records[id] == nil {
		return notFound(c, name)
	}
	delete(col.records, id)

	// children keep existing with a cleared reference
	child := map[string]string{"organizations": "projects", "projects": "problems", "problems": "solutions"}[name]
	if child != "" {
		for _, rec := range b.collections[child].records {
			if ref, ok := toID(rec[col.key]); ok && ref == id {
				rec[col.key] = nil
			}
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// linkProjects points exactly the listed projects at the organization.
func (b *Backend) linkProjects(orgID int64, raw any) {
	wanted := map[int64]bool{}
	if list, ok := raw.([]any); ok {
		for _, v := range list {
			if id, ok := toID(v); ok {
				wanted[id] = true
			}
		}
	}
	for id, rec := range b.collections["projects"].records {
		ref, linked := toID(rec["organization_id"])
		switch {
		case wanted[id]:
			rec["organization_id"] = orgID
		case linked && ref == orgID:
			rec["organization_id"] = nil
		}
	}
}

func (b *Backend) expand(name string, id int64) record {
	src := b.collections[name].records[id]
	out := make(record, len(src)+2)
	for k, v := range src {
		out[k] = v
	}
	if b.flat {
		return out
	}

	switch name {
	case "organizations":
		out["projects"] = b.children("projects", "organization_id", id)
	case "projects":
		if parent := b.parent("organizations", out["organization_id"]); parent != nil {
			out["organization"] = parent
		}
		out["problems"] = b.children("problems", "project_id", id)
	case "problems":
		if parent := b.parent("projects", out["project_id"]); parent != nil {
			out["project"] = parent
		}
		out["solutions"] = b.children("solutions", "problem_id", id)
	case "solutions":
		if parent := b.parent("problems", out["problem_id"]); parent != nil {
			out["problem"] = parent
		}
	}
	return out
}

func (b *Backend) children(name, fk string, parentID int64) []record {
	col := b.collections[name]
	ids := make([]int64, 0)
	for id, rec := range col.records {
		if ref, ok := toID(rec[fk]); ok && ref == parentID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]record, 0, len(ids))
	for _, id := range ids {
		out = append(out, col.records[id])
	}
	return out
}

func (b *Backend) parent(name string, ref any) record {
	id, ok := toID(ref)
	if !ok {
		return nil
	}
	return b.collections[name].records[id]
}

func toID(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case json.Number:
		id, err := n.Int64()
		return id, err == nil
	default:
		return 0, false
	}
}

func (b *Backend) listMessages(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Message, 0, len(b.messages))
	for _, m := range b.messages {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MessageID < out[j].MessageID })
	return c.JSON(http.StatusOK, out)
}

func (b *Backend) getMessage(c echo.Context) error {
	id, ok := parseID(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	m, exists := b.messages[id]
	if !ok || !exists {
		return detail(c, http.StatusNotFound, "Message not found")
	}
	return c.JSON(http.StatusOK, m)
}

func (b *Backend) process(c echo.Context) error {
	var req models.ProcessMessageRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid JSON body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return validationFailed(c, "message", "field required")
	}
	if !req.ResponseStyle.Valid() {
		return validationFailed(c, "response_style", "unexpected value")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.processResponse != nil {
		return c.JSON(http.StatusOK, b.processResponse)
	}
	return c.JSON(http.StatusOK, models.Response{
		Text:      fmt.Sprintf("(%s) We hear you: %s", req.ResponseStyle, req.Message),
		Problems:  []models.ProblemSummary{},
		Solutions: []models.SolutionSummary{},
		Projects:  []models.ProjectSummary{},
	})
}

// Client returns an API client pointed at the backend with the right key.
func (b *Backend) Client(t testing.TB) *apiclient.Client {
	t.Helper()
	cfg := apiclient.DefaultConfig()
	cfg.BaseURL = b.URL()
	cfg.APIKey = b.APIKey
	client, err := apiclient.NewClient(cfg, NopLogger())
	if err != nil {
		t.Fatalf("failed to create api client: %v", err)
	}
	return client
}

// NopLogger discards every log line.
func NopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}
