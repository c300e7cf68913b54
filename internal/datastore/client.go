package datastore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"time"
)

// DefaultDatasetteDatabase is the database name rows are posted to.
const DefaultDatasetteDatabase = "springer"

// DatasetteClient implements the Store interface for remote Datasette instances
type DatasetteClient struct {
	baseURL  string
	database string
	apiToken string
	client   *http.Client
}

// NewDatasetteClient creates a new DatasetteClient instance.
// An empty database selects DefaultDatasetteDatabase.
func NewDatasetteClient(baseURL, database, apiToken string) *DatasetteClient {
	if database == "" {
		database = DefaultDatasetteDatabase
	}
	return &DatasetteClient{
		baseURL:  baseURL,
		database: database,
		apiToken: apiToken,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Connect validates the base URL
func (c *DatasetteClient) Connect() error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base URL: %q", c.baseURL)
	}
	return nil
}

// CreateTable is a no-op for remote Datasette as tables are created via the insert API
func (c *DatasetteClient) CreateTable(schema string) error {
	return nil
}

// BatchInsert posts rows to the datasette-insert endpoint of table
func (c *DatasetteClient) BatchInsert(table string, records []map[string]any) error {
	if len(records) == 0 {
		return nil
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = path.Join(u.Path, "-/insert", c.database, table)
	q := u.Query()
	q.Set("upsert", "1")
	u.RawQuery = q.Encode()

	payload := map[string]any{
		"rows": records,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON payload: %w", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, u.String(), bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errResp map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return fmt.Errorf("request failed with status %d", resp.StatusCode)
		}
		return fmt.Errorf("API error: %v", errResp)
	}

	return nil
}

// Close is a no-op for the HTTP client
func (c *DatasetteClient) Close() error {
	return nil
}
