// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-04
// Last Modified: 2026-10-15

package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/similigh/trello2gh/internal/mapping"
	"github.com/similigh/trello2gh/internal/reconcile"
)

const graphQLEndpoint = "https://api.github.com/graphql"

// statusFieldName is the single-select field GitHub Projects use for board columns.
const statusFieldName = "Status"

// GraphQLClient provides access to GitHub's GraphQL API.
type GraphQLClient struct {
	httpClient *http.Client
	token      string
	endpoint   string
}

// NewGraphQLClient creates a new GraphQL client with the given token.
func NewGraphQLClient(httpClient *http.Client, token string) *GraphQLClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GraphQLClient{
		httpClient: httpClient,
		token:      token,
		endpoint:   graphQLEndpoint,
	}
}

// WithEndpoint points the client at another GraphQL endpoint, such as a
// GitHub Enterprise Server. An empty endpoint keeps the current one.
func (c *GraphQLClient) WithEndpoint(endpoint string) *GraphQLClient {
	if endpoint != "" {
		c.endpoint = endpoint
	}
	return c
}

// graphQLRequest represents a GraphQL request payload.
type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// graphQLResponse represents a GraphQL response.
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

// execute sends a GraphQL query/mutation and returns the response data.
func (c *GraphQLClient) execute(ctx context.Context, query string, variables map[string]interface{}) (json.RawMessage, error) {
	reqBody := graphQLRequest{
		Query:     query,
		Variables: variables,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Truncate response body to avoid leaking sensitive data in logs
		truncated := string(respBody)
		if len(truncated) > 200 {
			truncated = truncated[:200] + "..."
		}
		return nil, fmt.Errorf("GraphQL request failed with status %d: %s", resp.StatusCode, truncated)
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		return nil, fmt.Errorf("GraphQL error: %s", gqlResp.Errors[0].Message)
	}

	return gqlResp.Data, nil
}

// ownerField returns the top-level query field for a project owner.
func ownerField(ownerType mapping.OwnerType) string {
	if ownerType == mapping.OwnerOrganization {
		return "organization"
	}
	return "user"
}

// ProjectInfo fetches a Projects (v2) board and the options of its Status field.
func (c *GraphQLClient) ProjectInfo(ctx context.Context, owner string, ownerType mapping.OwnerType, number int) (*reconcile.ProjectInfo, error) {
	field := ownerField(ownerType)
	query := fmt.Sprintf(`
		query($login: String!, $number: Int!, $field: String!) {
			%s(login: $login) {
				projectV2(number: $number) {
					id
					title
					field(name: $field) {
						... on ProjectV2SingleSelectField {
							id
							options {
								id
								name
								color
							}
						}
					}
				}
			}
		}
	`, field)
	variables := map[string]interface{}{
		"login":  owner,
		"number": number,
		"field":  statusFieldName,
	}

	data, err := c.execute(ctx, query, variables)
	if err != nil {
		return nil, err
	}

	var result map[string]*struct {
		ProjectV2 *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
			Field *struct {
				ID      string `json:"id"`
				Options []struct {
					ID    string `json:"id"`
					Name  string `json:"name"`
					Color string `json:"color"`
				} `json:"options"`
			} `json:"field"`
		} `json:"projectV2"`
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse project: %w", err)
	}

	ownerNode := result[field]
	if ownerNode == nil || ownerNode.ProjectV2 == nil || ownerNode.ProjectV2.ID == "" {
		return nil, fmt.Errorf("project not found: %s %s #%d", field, owner, number)
	}

	project := ownerNode.ProjectV2
	info := &reconcile.ProjectInfo{
		ID:    project.ID,
		Title: project.Title,
	}
	if project.Field != nil {
		info.StatusFieldID = project.Field.ID
		for _, o := range project.Field.Options {
			info.StatusOptions = append(info.StatusOptions, reconcile.StatusOption{
				ID:    o.ID,
				Name:  o.Name,
				Color: o.Color,
			})
		}
	}

	return info, nil
}

// AddProjectItem adds an issue or pull request to a project and returns the item id.
func (c *GraphQLClient) AddProjectItem(ctx context.Context, projectID, contentNodeID string) (string, error) {
	mutation := `
		mutation($projectId: ID!, $contentId: ID!) {
			addProjectV2ItemById(input: {projectId: $projectId, contentId: $contentId}) {
				item {
					id
				}
			}
		}
	`
	variables := map[string]interface{}{
		"projectId": projectID,
		"contentId": contentNodeID,
	}

	data, err := c.execute(ctx, mutation, variables)
	if err != nil {
		return "", err
	}

	var result struct {
		AddProjectV2ItemByID struct {
			Item struct {
				ID string `json:"id"`
			} `json:"item"`
		} `json:"addProjectV2ItemById"`
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("failed to parse project item: %w", err)
	}

	if result.AddProjectV2ItemByID.Item.ID == "" {
		return "", fmt.Errorf("adding project item failed: empty item id returned")
	}

	return result.AddProjectV2ItemByID.Item.ID, nil
}

// SetProjectItemStatus sets a single-select field of a project item.
func (c *GraphQLClient) SetProjectItemStatus(ctx context.Context, projectID, itemID, fieldID, optionID string) error {
	mutation := `
		mutation($projectId: ID!, $itemId: ID!, $fieldId: ID!, $optionId: String!) {
			updateProjectV2ItemFieldValue(input: {
				projectId: $projectId
				itemId: $itemId
				fieldId: $fieldId
				value: {singleSelectOptionId: $optionId}
			}) {
				projectV2Item {
					id
				}
			}
		}
	`
	variables := map[string]interface{}{
		"projectId": projectID,
		"itemId":    itemID,
		"fieldId":   fieldID,
		"optionId":  optionID,
	}

	_, err := c.execute(ctx, mutation, variables)
	return err
}
