package pagination

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const (
	// DefaultPerPage is used when the per_page query parameter is absent or
	// not a number.
	DefaultPerPage = 10
	// MaxPerPage is the hard cap on page size. Larger requests are clamped
	// silently, never rejected.
	MaxPerPage = 100
)

// Meta carries the pagination metadata of a collection response.
type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
}

// Links carries the navigation links of a collection response. Next is
// omitted on the last page, Prev on the first.
type Links struct {
	Self string  `json:"self"`
	Next *string `json:"next,omitempty"`
	Prev *string `json:"prev,omitempty"`
}

// Envelope is the page envelope: items plus metadata plus navigation links.
type Envelope struct {
	Items interface{} `json:"items"`
	Meta  Meta        `json:"_meta"`
	Links Links       `json:"_links"`
}

// ParseParams reads page and per_page from the request query. page defaults
// to 1, per_page to DefaultPerPage clamped at MaxPerPage.
func ParseParams(c *fiber.Ctx) (page, perPage int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage = c.QueryInt("per_page", DefaultPerPage)
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// Offset converts a page number into a row offset.
func Offset(page, perPage int) int {
	return (page - 1) * perPage
}

// NewEnvelope wraps one page of an ordered collection. path is the resource
// path of the originating request including any route-scoping segments
// (e.g. /api/users/7/posts); the navigation links re-attach the pagination
// query parameters to it. A page beyond the last yields empty items with
// accurate metadata.
func NewEnvelope(items interface{}, page, perPage int, totalItems int64, path string) Envelope {
	totalPages := int((totalItems + int64(perPage) - 1) / int64(perPage))

	link := func(p int) string {
		return fmt.Sprintf("%s?page=%d&per_page=%d", path, p, perPage)
	}

	links := Links{Self: link(page)}
	if page < totalPages {
		next := link(page + 1)
		links.Next = &next
	}
	if page > 1 {
		prev := link(page - 1)
		links.Prev = &prev
	}

	return Envelope{
		Items: items,
		Meta: Meta{
			Page:       page,
			PerPage:    perPage,
			TotalPages: totalPages,
			TotalItems: totalItems,
		},
		Links: links,
	}
}
