package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"classreminder/internal/record"
)

// Snapshot is one invocation's view of the document store, split by the
// `type` discriminator field.
type Snapshot struct {
	Schedules     []record.Schedule
	Students      []record.Student
	Settings      record.Settings
	SettingsFound bool
}

// Client reads the reminder documents over the document store's REST API.
type Client struct {
	BaseURL    string
	ProjectID  string
	APIKey     string
	Collection string
	HTTP       *http.Client
}

// New creates a client with a per-call timeout.
func New(baseURL, projectID, apiKey, collection string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		ProjectID:  projectID,
		APIKey:     apiKey,
		Collection: collection,
		HTTP:       &http.Client{Timeout: timeout},
	}
}

type document struct {
	Name   string                       `json:"name"`
	Fields map[string]record.FieldValue `json:"fields"`
}

type listResponse struct {
	Documents     []document `json:"documents"`
	NextPageToken string     `json:"nextPageToken"`
}

// Fetch pulls the whole collection and splits it into schedules, students,
// and settings. When no settings document exists, Snapshot.Settings holds the
// defaults and SettingsFound is false.
func (c *Client) Fetch(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{Settings: record.DefaultSettings()}

	pageToken := ""
	for {
		docs, next, err := c.listPage(ctx, pageToken)
		if err != nil {
			return Snapshot{Settings: record.DefaultSettings()}, err
		}
		for _, doc := range docs {
			fields := record.Flatten(doc.Fields)
			switch fields["type"] {
			case "schedule":
				snap.Schedules = append(snap.Schedules, record.ScheduleFromFields(docID(doc.Name), fields))
			case "student":
				snap.Students = append(snap.Students, record.StudentFromFields(fields))
			case "reminder_settings":
				snap.Settings = record.SettingsFromFields(fields)
				snap.SettingsFound = true
			}
		}
		if next == "" {
			break
		}
		pageToken = next
	}
	return snap, nil
}

func (c *Client) listPage(ctx context.Context, pageToken string) ([]document, string, error) {
	q := url.Values{}
	q.Set("key", c.APIKey)
	q.Set("pageSize", "300")
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}
	endpoint := fmt.Sprintf("%s/projects/%s/databases/(default)/documents/%s?%s",
		c.BaseURL, c.ProjectID, c.Collection, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("data source request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("data source error %s: %s", resp.Status, string(bodyBytes))
	}

	var out listResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, "", fmt.Errorf("failed to decode response: %w", err)
	}
	return out.Documents, out.NextPageToken, nil
}

// docID extracts the document id from the full resource name.
func docID(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
