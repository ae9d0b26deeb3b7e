package models

import "time"

// Record is one row fetched from the Airtable REST API.
//
// Field values are deliberately untyped: Airtable does not guarantee a
// stable shape for the same column across records (a column can yield a
// string in one record, an array in the next, an attachment list in a
// third). Every consumer must normalize defensively.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime time.Time      `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

// ListPage is one page of a paginated record listing. Offset is the cursor
// to echo on the next request; an empty Offset means the listing is done.
type ListPage struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}
