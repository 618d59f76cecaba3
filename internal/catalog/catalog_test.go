package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/friendly_mart/internal/apiclient"
	"github.com/Skotchmaster/friendly_mart/internal/resource"
	"github.com/Skotchmaster/friendly_mart/internal/testutil"
	"github.com/Skotchmaster/friendly_mart/internal/transport"
)

func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	all := []transport.Product{
		{ID: 1, Name: "Toor Dal", Category: 2, Price: 140, Stock: 20},
		{ID: 2, Name: "Amul Butter", Category: 3, Price: 56, Stock: 8},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/categories/":
			testutil.JSON(w, http.StatusOK, []transport.Category{{ID: 2, Name: "Staples"}, {ID: 3, Name: "Dairy"}})
		case "/products/":
			out := []transport.Product{}
			for _, p := range all {
				if c := r.URL.Query().Get("category"); c != "" && c != strconv.Itoa(int(p.Category)) {
					continue
				}
				if r.URL.Query().Get("q") == "zzz" {
					continue
				}
				out = append(out, p)
			}
			testutil.JSON(w, http.StatusOK, map[string]any{"products": out})
		case "/products/subcategory/Whole Spices/":
			testutil.JSON(w, http.StatusOK, transport.SubCategoryProducts{
				SubCategory: "Whole Spices",
				Products:    []transport.Product{{ID: 5, Name: "Cardamom", Category: 4, SubCategoryName: "Whole Spices"}},
			})
		case "/products/category/2/grouped/":
			testutil.JSON(w, http.StatusOK, map[string][]transport.Product{
				"Pulses": {all[0]},
				"Rice":   {},
			})
		case "/product/2/":
			testutil.JSON(w, http.StatusOK, all[1])
		default:
			testutil.JSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRefresh_WithFilter(t *testing.T) {
	ctx := context.Background()
	c := New(apiclient.New(catalogServer(t).URL))
	defer c.Close()

	_, err := c.Refresh(ctx)
	require.NoError(t, err)
	assert.Len(t, c.View().Items, 2)

	c.SetFilter(Filter{CategoryID: 2})
	_, err = c.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, c.View().Items, 1)
	assert.Equal(t, "Toor Dal", c.View().Items[0].Name)

	c.SetFilter(Filter{Query: "zzz"})
	_, err = c.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, resource.Empty, c.View().State)
	assert.Equal(t, MsgEmpty, c.View().Message)
}

func TestCategoriesAndProduct(t *testing.T) {
	ctx := context.Background()
	c := New(apiclient.New(catalogServer(t).URL))

	cats, err := c.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 2)

	p, err := c.Product(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Amul Butter", p.Name)

	_, err = c.Product(ctx, 99)
	require.Error(t, err)
}

func TestRefresh_SubCategory(t *testing.T) {
	ctx := context.Background()
	c := New(apiclient.New(catalogServer(t).URL))
	defer c.Close()

	c.SetFilter(Filter{SubCategory: "Whole Spices", CategoryID: 2})
	_, err := c.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, c.View().Items, 1)
	assert.Equal(t, "Cardamom", c.View().Items[0].Name)

	c.SetFilter(Filter{SubCategory: "Pickles"})
	_, err = c.Refresh(ctx)
	require.Error(t, err)
	assert.Equal(t, resource.Failed, c.View().State)
	assert.Empty(t, c.View().Items)
}

func TestGrouped(t *testing.T) {
	c := New(apiclient.New(catalogServer(t).URL))

	groups, err := c.Grouped(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, groups["Pulses"], 1)
	assert.Equal(t, "Toor Dal", groups["Pulses"][0].Name)
	assert.Empty(t, groups["Rice"])

	_, err = c.Grouped(context.Background(), 9)
	require.Error(t, err)
}
