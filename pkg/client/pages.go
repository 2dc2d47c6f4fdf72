package client

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// Page is one ordered batch of raw records plus continuation state.
// Transient; callers discard it once its records are transformed.
type Page struct {
	Records []map[string]interface{}
	Total   int
	Offset  int
}

// PageOptions tunes one table's paginated fetch.
type PageOptions struct {
	Filters  []Filter
	Fields   []string
	PageSize int
}

// Pages lazily iterates the pages of one endpoint. It is finite and not
// restartable: a fresh iterator must be created to re-read. At most one
// page is held in memory.
type Pages struct {
	c     *Client
	url   string
	opts  PageOptions
	skip  int
	total int
	done  bool
}

// Pages returns an iterator over a top-level table endpoint, e.g.
// "activities" or "tickets/categories".
func (c *Client) Pages(path string, opts PageOptions) *Pages {
	return &Pages{
		c:     c,
		url:   c.endpointURL(path),
		opts:  opts,
		total: -1,
	}
}

// ChildPages returns an iterator over a child endpoint scoped to one
// parent record, e.g. /api/v6/activities/{id}/email.json.
func (c *Client) ChildPages(parent, parentID, child string, opts PageOptions) *Pages {
	path := strings.Join([]string{parent, url.PathEscape(parentID), child}, "/")
	return &Pages{
		c:     c,
		url:   c.endpointURL(path),
		opts:  opts,
		total: -1,
	}
}

// Next fetches the next page. It returns (nil, nil) once the endpoint is
// exhausted: the API reported no further records or returned an empty page.
func (p *Pages) Next(ctx context.Context) (*Page, error) {
	if p.done {
		return nil, nil
	}

	take := p.opts.PageSize
	if take <= 0 {
		take = p.c.pageSize
	}

	query := url.Values{}
	query.Set("skip", strconv.Itoa(p.skip))
	query.Set("take", strconv.Itoa(take))
	if encoded := encodeFilters(p.opts.Filters); encoded != "" {
		query.Set("filter", encoded)
	}
	if len(p.opts.Fields) > 0 {
		query.Set("fields", strings.Join(p.opts.Fields, ","))
	}

	envelope, err := p.c.getJSON(ctx, p.url, query)
	if err != nil {
		p.done = true
		return nil, err
	}

	records := envelope.Result.Data
	if len(records) == 0 {
		p.done = true
		return nil, nil
	}

	page := &Page{
		Records: records,
		Total:   envelope.Result.Total,
		Offset:  p.skip,
	}

	p.total = envelope.Result.Total
	p.skip += len(records)
	// A missing/zero total is not authoritative; keep going until an
	// empty page in that case.
	if p.total > 0 && p.skip >= p.total {
		p.done = true
	}

	return page, nil
}
