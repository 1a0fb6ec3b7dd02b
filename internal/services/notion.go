// Notion API implementation of [TaskSource]
//
// Notion API response types based on https://developers.notion.com/reference
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/desertthunder/notioncal/internal/models"
	"github.com/desertthunder/notioncal/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	notionBaseURL = "https://api.notion.com/v1"
	notionVersion = "2025-09-03"

	// Notion caps integrations at an average of 3 requests per second.
	notionRateLimit = 3

	queryPageSize = 100
)

// RichText represents a fragment of Notion rich text content.
type RichText struct {
	PlainText string `json:"plain_text"`
}

// NamedOption represents a select, multi-select, or status value.
type NamedOption struct {
	Name string `json:"name"`
}

// NotionDate represents a date property value with an optional end.
type NotionDate struct {
	Start string  `json:"start"`
	End   *string `json:"end"`
}

// NotionUser represents a user reference in a people property.
type NotionUser struct {
	Name string `json:"name"`
}

// NotionProperty is a single page property with its type discriminator.
// Only the field matching Type is populated by the API.
type NotionProperty struct {
	Type           string            `json:"type"`
	Title          []RichText        `json:"title,omitempty"`
	RichText       []RichText        `json:"rich_text,omitempty"`
	Number         *float64          `json:"number,omitempty"`
	Select         *NamedOption      `json:"select,omitempty"`
	MultiSelect    []NamedOption     `json:"multi_select,omitempty"`
	Status         *NamedOption      `json:"status,omitempty"`
	Date           *NotionDate       `json:"date,omitempty"`
	People         []NotionUser      `json:"people,omitempty"`
	Checkbox       *bool             `json:"checkbox,omitempty"`
	URL            *string           `json:"url,omitempty"`
	Email          *string           `json:"email,omitempty"`
	PhoneNumber    *string           `json:"phone_number,omitempty"`
	Relation       []json.RawMessage `json:"relation,omitempty"`
	Files          []json.RawMessage `json:"files,omitempty"`
	CreatedTime    string            `json:"created_time,omitempty"`
	LastEditedTime string            `json:"last_edited_time,omitempty"`
}

// NotionPage represents a page (row) in a Notion database.
type NotionPage struct {
	ID             string                    `json:"id"`
	URL            string                    `json:"url"`
	CreatedTime    string                    `json:"created_time"`
	LastEditedTime string                    `json:"last_edited_time"`
	Properties     map[string]NotionProperty `json:"properties"`
}

type notionDatabase struct {
	ID          string `json:"id"`
	DataSources []struct {
		ID string `json:"id"`
	} `json:"data_sources"`
}

type notionQueryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size"`
}

type notionQueryResponse struct {
	Results    []json.RawMessage `json:"results"`
	HasMore    bool              `json:"has_more"`
	NextCursor *string           `json:"next_cursor"`
}

// NotionService implements [TaskSource] backed by a Notion database.
// Requests are throttled with a [rate.Limiter] to respect Notion's API limits.
type NotionService struct {
	databaseID    string
	titleProperty string
	baseURL       string
	httpClient    *http.Client
	limiter       *rate.Limiter

	// data source ID resolved lazily on first fetch
	dataSourceID string
}

// NewNotionService creates a Notion service authenticated with an internal
// integration token. The title property defaults to "Task name".
func NewNotionService(token, databaseID, titleProperty string) (*NotionService, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: notion token", shared.ErrMissingCredentials)
	}
	if databaseID == "" {
		return nil, fmt.Errorf("%w: notion database ID", shared.ErrMissingCredentials)
	}
	if titleProperty == "" {
		titleProperty = "Task name"
	}

	client := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))

	return &NotionService{
		databaseID:    databaseID,
		titleProperty: titleProperty,
		baseURL:       notionBaseURL,
		httpClient:    client,
		limiter:       rate.NewLimiter(rate.Limit(notionRateLimit), 1),
	}, nil
}

func (s *NotionService) Name() string {
	return "Notion"
}

// SetBaseURL overrides the API base URL. Used by tests.
func (s *NotionService) SetBaseURL(url string) {
	s.baseURL = strings.TrimSuffix(url, "/")
}

// SetHTTPClient overrides the HTTP client. Used by tests.
func (s *NotionService) SetHTTPClient(client *http.Client) {
	s.httpClient = client
}

// doRequest performs a rate-limited HTTP request against the Notion API.
func (s *NotionService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter interrupted: %w", err)
	}

	apiURL := s.baseURL + endpoint

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", shared.ErrDatabaseNotFound, endpoint)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: notion API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// resolveDataSource looks up the database's first data source ID.
// The 2025-09 API queries data sources rather than databases directly.
func (s *NotionService) resolveDataSource(ctx context.Context) (string, error) {
	if s.dataSourceID != "" {
		return s.dataSourceID, nil
	}

	var db notionDatabase
	endpoint := fmt.Sprintf("/databases/%s", s.databaseID)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &db); err != nil {
		return "", err
	}

	if len(db.DataSources) == 0 {
		return "", fmt.Errorf("%w: no data sources in database %s", shared.ErrDatabaseNotFound, s.databaseID)
	}

	s.dataSourceID = db.DataSources[0].ID
	return s.dataSourceID, nil
}

// FetchRaw retrieves every page in the database as raw JSON, following
// pagination cursors until exhaustion.
func (s *NotionService) FetchRaw(ctx context.Context) ([]json.RawMessage, error) {
	dataSourceID, err := s.resolveDataSource(ctx)
	if err != nil {
		return nil, err
	}

	var pages []json.RawMessage
	cursor := ""

	for {
		reqBody := notionQueryRequest{StartCursor: cursor, PageSize: queryPageSize}

		var resp notionQueryResponse
		endpoint := fmt.Sprintf("/data_sources/%s/query", dataSourceID)
		if err := s.doRequest(ctx, http.MethodPost, endpoint, reqBody, &resp); err != nil {
			return nil, err
		}

		pages = append(pages, resp.Results...)

		if !resp.HasMore || resp.NextCursor == nil {
			break
		}
		cursor = *resp.NextCursor
	}

	return pages, nil
}

// FetchPages retrieves every page in the database decoded into [NotionPage].
func (s *NotionService) FetchPages(ctx context.Context) ([]NotionPage, error) {
	raw, err := s.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}

	pages := make([]NotionPage, 0, len(raw))
	for _, msg := range raw {
		var page NotionPage
		if err := json.Unmarshal(msg, &page); err != nil {
			return nil, fmt.Errorf("failed to decode page: %w", err)
		}
		pages = append(pages, page)
	}

	return pages, nil
}

// FetchTasks retrieves all tasks from the configured database.
func (s *NotionService) FetchTasks(ctx context.Context) ([]models.Task, error) {
	pages, err := s.FetchPages(ctx)
	if err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(pages))
	for _, page := range pages {
		tasks = append(tasks, s.taskFromPage(page))
	}

	return tasks, nil
}

// taskFromPage extracts the sync-relevant fields from a page.
func (s *NotionService) taskFromPage(page NotionPage) models.Task {
	task := models.Task{
		ID:             page.ID,
		URL:            page.URL,
		CreatedTime:    page.CreatedTime,
		LastEditedTime: page.LastEditedTime,
		Title:          "Untitled",
	}

	if prop, ok := page.Properties[s.titleProperty]; ok {
		if title := joinRichText(prop.Title); title != "" {
			task.Title = title
		}
	}

	if prop, ok := page.Properties["Due"]; ok && prop.Date != nil {
		task.DueStart = prop.Date.Start
		if prop.Date.End != nil {
			task.DueEnd = *prop.Date.End
		}
	}

	if prop, ok := page.Properties["Status"]; ok && prop.Status != nil {
		task.Status = prop.Status.Name
	}

	if prop, ok := page.Properties["Assign"]; ok {
		for _, person := range prop.People {
			name := person.Name
			if name == "" {
				name = "Unknown"
			}
			task.Assignees = append(task.Assignees, name)
		}
	}

	return task
}

// Title extracts the page's title text using the configured title property.
func (s *NotionService) Title(page NotionPage) string {
	if prop, ok := page.Properties[s.titleProperty]; ok {
		if title := joinRichText(prop.Title); title != "" {
			return title
		}
	}
	return "<untitled>"
}

func joinRichText(parts []RichText) string {
	var sb strings.Builder
	for _, part := range parts {
		sb.WriteString(part.PlainText)
	}
	return sb.String()
}

// DisplayValue renders a property as a readable string for the detailed
// listing mode.
func (p NotionProperty) DisplayValue() string {
	switch p.Type {
	case "title":
		return orEmpty(joinRichText(p.Title))
	case "rich_text":
		return orEmpty(joinRichText(p.RichText))
	case "number":
		if p.Number == nil {
			return "<empty>"
		}
		return trimFloat(*p.Number)
	case "select":
		if p.Select == nil {
			return "<empty>"
		}
		return p.Select.Name
	case "multi_select":
		names := make([]string, 0, len(p.MultiSelect))
		for _, opt := range p.MultiSelect {
			names = append(names, opt.Name)
		}
		return orEmpty(strings.Join(names, ", "))
	case "status":
		if p.Status == nil {
			return "<empty>"
		}
		return p.Status.Name
	case "date":
		if p.Date == nil {
			return "<empty>"
		}
		if p.Date.End != nil {
			return fmt.Sprintf("%s → %s", p.Date.Start, *p.Date.End)
		}
		return p.Date.Start
	case "people":
		names := make([]string, 0, len(p.People))
		for _, person := range p.People {
			name := person.Name
			if name == "" {
				name = "Unknown"
			}
			names = append(names, name)
		}
		return orEmpty(strings.Join(names, ", "))
	case "checkbox":
		if p.Checkbox != nil && *p.Checkbox {
			return "✓"
		}
		return "✗"
	case "url":
		return orEmptyPtr(p.URL)
	case "email":
		return orEmptyPtr(p.Email)
	case "phone_number":
		return orEmptyPtr(p.PhoneNumber)
	case "relation":
		if len(p.Relation) == 0 {
			return "<empty>"
		}
		return fmt.Sprintf("%d related item(s)", len(p.Relation))
	case "files":
		if len(p.Files) == 0 {
			return "<empty>"
		}
		return fmt.Sprintf("%d file(s)", len(p.Files))
	case "created_time":
		return orEmpty(p.CreatedTime)
	case "last_edited_time":
		return orEmpty(p.LastEditedTime)
	default:
		return fmt.Sprintf("<unsupported type: %s>", p.Type)
	}
}

func orEmpty(s string) string {
	if s == "" {
		return "<empty>"
	}
	return s
}

func orEmptyPtr(s *string) string {
	if s == nil || *s == "" {
		return "<empty>"
	}
	return *s
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
