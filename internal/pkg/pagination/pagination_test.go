package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	var got Params
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = FromQuery(c)
		return nil
	})
	_, err := app.Test(httptest.NewRequest("GET", "/"+query, nil))
	require.NoError(t, err)
	return got
}

func TestFromQuery(t *testing.T) {
	assert.Equal(t, Params{Page: 1, Limit: DefaultLimit}, paramsFor(t, ""))
	assert.Equal(t, Params{Page: 3, Limit: 5}, paramsFor(t, "?page=3&limit=5"))
	assert.Equal(t, Params{Page: 1, Limit: DefaultLimit}, paramsFor(t, "?page=-2&limit=abc"))
	assert.Equal(t, Params{Page: 2, Limit: MaxLimit}, paramsFor(t, "?page=2&limit=500"))
	assert.Equal(t, 10, Params{Page: 3, Limit: 5}.Offset())
}

func TestNewPage(t *testing.T) {
	page := NewPage([]string{"a", "b"}, Params{Page: 2, Limit: 2}, 5)
	assert.Equal(t, Meta{Page: 2, Limit: 2, Total: 5, TotalPages: 3, HasNext: true, HasPrev: true}, page.Meta)

	empty := NewPage[string](nil, Params{Page: 1, Limit: 20}, 0)
	assert.NotNil(t, empty.Data)
	assert.Zero(t, empty.Meta.TotalPages)
	assert.False(t, empty.Meta.HasNext)
}
