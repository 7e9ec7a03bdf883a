package provision

import (
	"context"
	"net/http"
	"strings"
)

// ListTeams returns every visible team, or nil when the call fails.
func (c *Client) ListTeams(ctx context.Context) []Team {
	var resp listResponse[Team]
	if err := c.do(ctx, http.MethodGet, "/teams/", nil, &resp); err != nil {
		c.warn("list teams failed", err)
		return nil
	}
	return resp.Results
}

// FindTeamByName looks a team up by case-insensitive name.
func (c *Client) FindTeamByName(ctx context.Context, name string) (Team, bool) {
	for _, t := range c.ListTeams(ctx) {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Team{}, false
}

// CreateTeam creates a team named name.
func (c *Client) CreateTeam(ctx context.Context, name string) (Team, bool) {
	var team Team
	req := createTeamRequest{Name: name, Visibility: teamVisibility}
	if err := c.do(ctx, http.MethodPost, "/teams/", req, &team); err != nil {
		c.warn("create team failed", err)
		return Team{}, false
	}
	c.logger.Info("team created", "team", team.Name, "team_id", team.ID.String())
	return team, true
}

// GetOrCreateTeam returns the team matching name, creating it when absent.
func (c *Client) GetOrCreateTeam(ctx context.Context, name string) (Team, bool) {
	if team, ok := c.FindTeamByName(ctx, name); ok {
		c.logger.Info("found existing team", "team", team.Name, "team_id", team.ID.String())
		return team, true
	}
	return c.CreateTeam(ctx, name)
}
