// Package airtable is a minimal client for the two Airtable REST calls
// this service makes: paginated table listing and single-record fetch.
// It is not a general Airtable client.
package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/tbcmaps/geofeed/internal/domain/models"
)

// DefaultBaseURL is the Airtable REST endpoint prefix.
const DefaultBaseURL = "https://api.airtable.com/v0"

// pageSize is fixed; Airtable caps list pages at 100 records.
const pageSize = 100

// Client fetches records from one Airtable base. The bearer token is
// injected by an oauth2 transport, so individual calls never handle
// credentials.
type Client struct {
	BaseURL string
	BaseID  string
	HTTP    *http.Client
	Log     *zap.Logger
}

// New constructs a Client for the given base, authorizing every request
// with the static API token.
func New(baseID, token string, logger *zap.Logger) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &Client{
		BaseURL: DefaultBaseURL,
		BaseID:  baseID,
		HTTP:    oauth2.NewClient(context.Background(), src),
		Log:     logger,
	}
}

// ListOptions narrows a table listing. An empty View lists the whole
// table; a non-empty Fields restricts the columns returned.
type ListOptions struct {
	View   string
	Fields []string
}

// List walks the table's offset cursor to exhaustion and returns every
// record.
//
// Any non-success upstream status aborts the whole listing with an error
// identifying the status and body; partial pages are discarded. There are
// no retries — regeneration is operator-triggered, and the operator
// re-POSTs on transient upstream failure.
func (c *Client) List(ctx context.Context, table string, opts ListOptions) ([]models.Record, error) {
	base := fmt.Sprintf("%s/%s/%s", c.BaseURL, c.BaseID, url.PathEscape(table))

	q := url.Values{}
	q.Set("pageSize", strconv.Itoa(pageSize))
	if opts.View != "" {
		q.Set("view", opts.View)
	}
	for _, f := range opts.Fields {
		if f != "" {
			q.Add("fields[]", f)
		}
	}

	var all []models.Record
	offset := ""
	pages := 0
	for {
		pq := url.Values{}
		for k, vs := range q {
			pq[k] = vs
		}
		if offset != "" {
			pq.Set("offset", offset)
		}

		var page models.ListPage
		if err := c.getJSON(ctx, base+"?"+pq.Encode(), &page); err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		pages++

		if page.Offset == "" {
			break
		}
		offset = page.Offset
	}

	c.Log.Debug("airtable listing complete",
		zap.String("table", table),
		zap.Int("records", len(all)),
		zap.Int("pages", pages))
	return all, nil
}

// GetRecord fetches a single record by its ID.
func (c *Client) GetRecord(ctx context.Context, table, recordID string) (models.Record, error) {
	u := fmt.Sprintf("%s/%s/%s/%s", c.BaseURL, c.BaseID, url.PathEscape(table), url.PathEscape(recordID))
	var rec models.Record
	if err := c.getJSON(ctx, u, &rec); err != nil {
		return models.Record{}, err
	}
	return rec, nil
}

// getJSON performs one GET and decodes the JSON body into out. Non-2xx
// responses become errors carrying the upstream status and body.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build airtable request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("airtable request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("airtable error %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode airtable response: %w", err)
	}
	return nil
}
