// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v60/github"

	"github.com/similigh/trello2gh/internal/reconcile"
)

const perPage = 100

// Client wraps the GitHub API client.
type Client struct {
	client *github.Client
}

// IssueRequest is the payload for a new issue.
type IssueRequest struct {
	Title     string
	Body      string
	Labels    []string
	Assignees []string
	Milestone *int
}

// CreatedIssue identifies an issue that was just created.
type CreatedIssue struct {
	Number int
	NodeID string
	URL    string
}

// ListLabels fetches every label of a repository.
func (c *Client) ListLabels(ctx context.Context, org, repo string) ([]reconcile.RemoteLabel, error) {
	var out []reconcile.RemoteLabel
	opts := &github.ListOptions{PerPage: perPage}
	for {
		labels, resp, err := c.client.Issues.ListLabels(ctx, org, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list labels: %w", err)
		}
		for _, l := range labels {
			out = append(out, reconcile.RemoteLabel{
				ID:    l.GetID(),
				Name:  l.GetName(),
				Color: l.GetColor(),
			})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// ListMilestones fetches every milestone of a repository, open or closed.
func (c *Client) ListMilestones(ctx context.Context, org, repo string) ([]reconcile.Milestone, error) {
	var out []reconcile.Milestone
	opts := &github.MilestoneListOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	for {
		milestones, resp, err := c.client.Issues.ListMilestones(ctx, org, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list milestones: %w", err)
		}
		for _, m := range milestones {
			out = append(out, reconcile.Milestone{
				ID:     m.GetID(),
				Number: m.GetNumber(),
				Title:  m.GetTitle(),
			})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// LookupUser returns the canonical login of a GitHub user.
// A missing user yields an error wrapping reconcile.ErrUserNotFound; any
// other failure is returned as the API reported it.
func (c *Client) LookupUser(ctx context.Context, login string) (string, error) {
	user, _, err := c.client.Users.Get(ctx, login)
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("%w: %s", reconcile.ErrUserNotFound, login)
		}
		return "", err
	}
	return user.GetLogin(), nil
}

// CreateLabel creates a repository label. An empty color lets GitHub pick one.
func (c *Client) CreateLabel(ctx context.Context, org, repo, name, color string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("label name cannot be empty")
	}

	label := &github.Label{Name: github.String(name)}
	if color != "" {
		label.Color = github.String(strings.TrimPrefix(color, "#"))
	}
	_, _, err := c.client.Issues.CreateLabel(ctx, org, repo, label)
	if err != nil {
		return fmt.Errorf("failed to create label %q: %w", name, err)
	}
	return nil
}

// CreateIssue opens a new issue.
func (c *Client) CreateIssue(ctx context.Context, org, repo string, req IssueRequest) (*CreatedIssue, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("issue title cannot be empty")
	}

	payload := &github.IssueRequest{
		Title:     github.String(req.Title),
		Body:      github.String(req.Body),
		Milestone: req.Milestone,
	}
	if len(req.Labels) > 0 {
		labels := req.Labels
		payload.Labels = &labels
	}
	if len(req.Assignees) > 0 {
		assignees := req.Assignees
		payload.Assignees = &assignees
	}

	issue, _, err := c.client.Issues.Create(ctx, org, repo, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	return &CreatedIssue{
		Number: issue.GetNumber(),
		NodeID: issue.GetNodeID(),
		URL:    issue.GetHTMLURL(),
	}, nil
}

// CreateComment posts a comment on an issue.
func (c *Client) CreateComment(ctx context.Context, org, repo string, number int, body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("comment body cannot be empty")
	}

	comment := &github.IssueComment{
		Body: github.String(body),
	}
	_, _, err := c.client.Issues.CreateComment(ctx, org, repo, number, comment)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}
