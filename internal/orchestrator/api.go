package orchestrator

import (
	"context"
	"strconv"
	"strings"

	"github.com/errobs/clientkit/internal/detect"
	"github.com/errobs/clientkit/internal/provision"
)

// connectAPI returns a reachable provisioning client, or nil when credentials are
// missing or the server does not answer.
func (r *runner) connectAPI(ctx context.Context) *provision.Client {
	if r.opts.APIKey == "" || r.opts.APIURL == "" {
		return nil
	}
	client, err := provision.New(r.opts.APIURL, r.opts.APIKey, provision.WithLogger(r.logger))
	if err != nil {
		r.logger.Warn("invalid api settings, falling back to manual DSN entry", "error", err)
		return nil
	}
	if !client.TestConnection(ctx) {
		r.logger.Warn("could not connect to the api, falling back to manual DSN entry", "url", client.BaseURL())
		return nil
	}
	r.printf("")
	r.printf("Connected to API: %s", client.BaseURL())
	return client
}

// dsnFromAPI finds or creates the team and project and returns the project's DSN.
// Any failure yields an empty DSN so the caller falls back to manual entry.
func (r *runner) dsnFromAPI(ctx context.Context, client *provision.Client, project detect.Project) (string, error) {
	r.printf("")
	r.printf("API mode: automatic project setup")
	r.printf(rule)

	teamName, err := r.chooseTeam(ctx, client)
	if err != nil {
		return "", err
	}
	if teamName == "" {
		r.logger.Warn("team name is required for api setup")
		return "", nil
	}
	team, ok := client.GetOrCreateTeam(ctx, teamName)
	if !ok {
		r.logger.Warn("could not get or create team", "team", teamName)
		return "", nil
	}

	projectName, err := r.chooseProject(ctx, client, team, project.Name)
	if err != nil {
		return "", err
	}
	if projectName == "" {
		r.logger.Warn("project name is required for api setup")
		return "", nil
	}
	remote, ok := client.GetOrCreateProject(ctx, team.ID, projectName)
	if !ok {
		r.logger.Warn("could not get or create project", "team", team.Name, "project", projectName)
		return "", nil
	}
	if remote.DSN == "" {
		r.logger.Warn("project has no DSN", "team", team.Name, "project", remote.Name)
		return "", nil
	}

	r.printf("")
	r.printf("DSN retrieved successfully!")
	r.printf("Team: %s", team.Name)
	r.printf("Project: %s", remote.Name)
	return remote.DSN, nil
}

func (r *runner) chooseTeam(ctx context.Context, client *provision.Client) (string, error) {
	if r.opts.Team != "" {
		return r.opts.Team, nil
	}
	if r.opts.NonInteractive {
		return "", nil
	}

	teams := client.ListTeams(ctx)
	if len(teams) == 0 {
		return r.ask("Enter team name:")
	}

	r.printf("")
	r.printf("Available teams:")
	for i, t := range teams {
		r.printf("  %d. %s", i+1, t.Name)
	}
	r.printf("  %d. Create new team", len(teams)+1)
	r.printf("")

	choice, err := r.ask("Select team number or enter new team name:")
	if err != nil {
		return "", err
	}
	idx, isNumber := menuIndex(choice)
	switch {
	case !isNumber:
		return choice, nil
	case idx >= 0 && idx < len(teams):
		return teams[idx].Name, nil
	case idx == len(teams):
		return r.ask("Enter new team name:")
	default:
		return "", nil
	}
}

func (r *runner) chooseProject(ctx context.Context, client *provision.Client, team provision.Team, detected string) (string, error) {
	if r.opts.Project != "" {
		return r.opts.Project, nil
	}
	name := detected
	if r.opts.NonInteractive {
		return name, nil
	}

	projects := client.ListProjects(ctx, team.ID)
	if len(projects) == 0 {
		return name, nil
	}

	r.printf("")
	r.printf("Existing projects in team '%s':", team.Name)
	for i, p := range projects {
		r.printf("  %d. %s", i+1, p.Name)
	}
	r.printf("  %d. Create new project", len(projects)+1)
	r.printf("")

	question := "Select project number or enter new name:"
	if name != "" {
		question = "Select project number or enter new name (default: " + name + "):"
	}
	choice, err := r.ask(question)
	if err != nil {
		return "", err
	}
	idx, isNumber := menuIndex(choice)
	switch {
	case choice == "":
		return name, nil
	case !isNumber:
		return choice, nil
	case idx >= 0 && idx < len(projects):
		return projects[idx].Name, nil
	case idx == len(projects):
		v, err := r.ask("Enter new project name [" + name + "]:")
		if err != nil {
			return "", err
		}
		if v != "" {
			name = v
		}
		return name, nil
	default:
		return name, nil
	}
}

// menuIndex converts a 1-based menu answer into a 0-based index.
func menuIndex(choice string) (int, bool) {
	if choice == "" || strings.TrimLeft(choice, "0123456789") != "" {
		return 0, false
	}
	n, err := strconv.Atoi(choice)
	if err != nil {
		return 0, false
	}
	return n - 1, true
}
