package provision

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ListProjects returns the projects of team, or nil when the call fails.
func (c *Client) ListProjects(ctx context.Context, team ID) []Project {
	path := "/projects/"
	if !team.IsZero() {
		path += "?team=" + url.QueryEscape(team.String())
	}
	var resp listResponse[Project]
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		c.warn("list projects failed", err)
		return nil
	}
	return resp.Results
}

// FindProjectByName looks a project of team up by case-insensitive name. The listing
// does not carry the DSN; use ProjectDetails for that.
func (c *Client) FindProjectByName(ctx context.Context, team ID, name string) (Project, bool) {
	for _, p := range c.ListProjects(ctx, team) {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Project{}, false
}

// ProjectDetails fetches the full project, including its DSN.
func (c *Client) ProjectDetails(ctx context.Context, id ID) (Project, bool) {
	var project Project
	path := fmt.Sprintf("/projects/%s/", url.PathEscape(id.String()))
	if err := c.do(ctx, http.MethodGet, path, nil, &project); err != nil {
		c.warn("fetch project details failed", err)
		return Project{}, false
	}
	return project, true
}

// CreateProject creates a project in team and re-fetches it by the returned
// identifier, since the creation response does not carry the DSN.
func (c *Client) CreateProject(ctx context.Context, team ID, name string) (Project, bool) {
	var created Project
	req := createProjectRequest{Team: team, Name: name, Visibility: projectVisibility}
	if err := c.do(ctx, http.MethodPost, "/projects/", req, &created); err != nil {
		c.warn("create project failed", err)
		return Project{}, false
	}
	if created.ID.IsZero() {
		c.logger.Warn("created project has no identifier", "project", name)
		return Project{}, false
	}
	c.logger.Info("project created", "project", name, "project_id", created.ID.String())
	return c.ProjectDetails(ctx, created.ID)
}

// GetOrCreateProject returns the fully detailed project named name in team, creating
// it when absent. Details are fetched on both paths.
func (c *Client) GetOrCreateProject(ctx context.Context, team ID, name string) (Project, bool) {
	if p, ok := c.FindProjectByName(ctx, team, name); ok {
		c.logger.Info("found existing project", "project", p.Name, "project_id", p.ID.String())
		return c.ProjectDetails(ctx, p.ID)
	}
	return c.CreateProject(ctx, team, name)
}
