package pagination_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"microblog/internal/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func parseVia(t *testing.T, target string) (page, perPage int) {
	t.Helper()
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		page, perPage = pagination.ParseParams(c)
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	return page, perPage
}

func TestParseParams(t *testing.T) {
	cases := []struct {
		target  string
		page    int
		perPage int
	}{
		{"/items", 1, 10},
		{"/items?page=3&per_page=20", 3, 20},
		{"/items?page=abc", 1, 10},
		{"/items?page=0", 1, 10},
		{"/items?per_page=-5", 1, 10},
		// per_page is clamped silently, never an error.
		{"/items?per_page=250", 1, 100},
	}
	for _, tc := range cases {
		page, perPage := parseVia(t, tc.target)
		assert.Equal(t, tc.page, page, tc.target)
		assert.Equal(t, tc.perPage, perPage, tc.target)
	}
}

func TestNewEnvelope_Meta(t *testing.T) {
	items := make([]int, 10)
	env := pagination.NewEnvelope(items, 1, 10, 25, "/api/users")

	assert.Equal(t, 1, env.Meta.Page)
	assert.Equal(t, 10, env.Meta.PerPage)
	assert.Equal(t, 3, env.Meta.TotalPages)
	assert.Equal(t, int64(25), env.Meta.TotalItems)
}

func TestNewEnvelope_Links(t *testing.T) {
	env := pagination.NewEnvelope([]int{}, 2, 10, 25, "/api/users/7/posts")

	assert.Equal(t, "/api/users/7/posts?page=2&per_page=10", env.Links.Self)
	if assert.NotNil(t, env.Links.Next) {
		assert.Equal(t, "/api/users/7/posts?page=3&per_page=10", *env.Links.Next)
	}
	if assert.NotNil(t, env.Links.Prev) {
		assert.Equal(t, "/api/users/7/posts?page=1&per_page=10", *env.Links.Prev)
	}

	first := pagination.NewEnvelope([]int{}, 1, 10, 25, "/api/users")
	assert.Nil(t, first.Links.Prev)
	assert.NotNil(t, first.Links.Next)

	last := pagination.NewEnvelope([]int{}, 3, 10, 25, "/api/users")
	assert.NotNil(t, last.Links.Prev)
	assert.Nil(t, last.Links.Next)
}

func TestNewEnvelope_OutOfRangePage(t *testing.T) {
	// A page beyond the last yields empty items with accurate metadata.
	env := pagination.NewEnvelope([]int{}, 4, 10, 25, "/api/users")

	assert.Empty(t, env.Items)
	assert.Equal(t, 4, env.Meta.Page)
	assert.Equal(t, 3, env.Meta.TotalPages)
	assert.Equal(t, int64(25), env.Meta.TotalItems)
	assert.Nil(t, env.Links.Next)
}

func TestNewEnvelope_SinglePage(t *testing.T) {
	env := pagination.NewEnvelope([]int{1, 2, 3}, 1, 10, 3, "/api/users")

	assert.Equal(t, 1, env.Meta.TotalPages)
	assert.Nil(t, env.Links.Next)
	assert.Nil(t, env.Links.Prev)
}

func TestOffset(t *testing.T) {
	for _, tc := range []struct{ page, perPage, offset int }{
		{1, 10, 0},
		{2, 10, 10},
		{5, 25, 100},
	} {
		assert.Equal(t, tc.offset, pagination.Offset(tc.page, tc.perPage),
			fmt.Sprintf("page=%d per_page=%d", tc.page, tc.perPage))
	}
}
