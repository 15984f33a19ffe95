// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
)

const defaultRetMax = 10000

// eSearchResult mirrors the esearch.fcgi XML response.
type eSearchResult struct {
	Count    int      `xml:"Count"`
	RetMax   int      `xml:"RetMax"`
	RetStart int      `xml:"RetStart"`
	IDs      []string `xml:"IdList>Id"`
}

// SearchOptions bound an ESearch query.
type SearchOptions struct {
	// MinDate and MaxDate restrict the publication date range
	// (YYYY/MM/DD, YYYY/MM, or YYYY). Both must be set together.
	MinDate string
	MaxDate string

	// RetMax is the page size (default 10000, the E-utilities maximum).
	RetMax int
}

// Search runs an ESearch query for term and returns all matching PMIDs,
// following retstart pagination until the reported count is exhausted.
func (c *Client) Search(ctx context.Context, term string, opts SearchOptions) ([]string, error) {
	if term == "" {
		return nil, fmt.Errorf("empty search term")
	}

	retMax := opts.RetMax
	if retMax <= 0 {
		retMax = defaultRetMax
	}

	var ids []string
	for retStart := 0; ; {
		params := url.Values{
			"term":     {term},
			"retmax":   {strconv.Itoa(retMax)},
			"retstart": {strconv.Itoa(retStart)},
		}
		if opts.MinDate != "" && opts.MaxDate != "" {
			params.Set("mindate", opts.MinDate)
			params.Set("maxdate", opts.MaxDate)
		}

		body, err := c.get(ctx, "esearch.fcgi", params)
		if err != nil {
			return nil, err
		}

		var page eSearchResult
		if err := xml.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("parsing esearch response: %w", err)
		}

		ids = append(ids, page.IDs...)

		retStart += len(page.IDs)
		if len(page.IDs) == 0 || retStart >= page.Count {
			return ids, nil
		}
	}
}
