package store

import (
	"context"
	"net/http"
	"testing"

	"shopfront/internal/models"
)

func TestLoadProductsQueryContainsOnlySetFields(t *testing.T) {
	var gotQuery map[string][]string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		writeJSON(t, w, http.StatusOK, []models.Product{
			{ID: 1, Name: "Headphones", Category: "Electronics", Price: 59.90},
		})
	})
	client, _ := newTestClient(t, handler)
	catalog := NewCatalog(client)

	products, err := catalog.LoadProducts(context.Background(), models.Filter{
		Category: "Electronics",
		MinPrice: 10,
	})
	if err != nil {
		t.Fatal("Failed to load products:", err)
	}

	if len(gotQuery) != 2 {
		t.Errorf("Expected exactly 2 query keys, got %v", gotQuery)
	}
	if got := gotQuery["category"]; len(got) != 1 || got[0] != "Electronics" {
		t.Errorf("Expected category=Electronics, got %v", got)
	}
	if got := gotQuery["minPrice"]; len(got) != 1 || got[0] != "10" {
		t.Errorf("Expected minPrice=10, got %v", got)
	}
	if _, present := gotQuery["search"]; present {
		t.Error("Unset search must not be sent")
	}
	if _, present := gotQuery["maxPrice"]; present {
		t.Error("Unset maxPrice must not be sent")
	}

	if len(products) != 1 || products[0].Name != "Headphones" {
		t.Errorf("Expected product list replaced with the response, got %+v", products)
	}
	if got := catalog.Products(); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("Expected store state replaced with the response, got %+v", got)
	}
}

func TestSetFilterMergesPartially(t *testing.T) {
	catalog := NewCatalog(nil)

	search := "deck"
	category := "Games"
	minPrice := 5.0
	catalog.SetFilter(models.FilterPatch{Search: &search, Category: &category, MinPrice: &minPrice})

	// Updating one field must keep the others.
	newSearch := "dice"
	catalog.SetFilter(models.FilterPatch{Search: &newSearch})

	filter := catalog.Filter()
	if filter.Search != "dice" {
		t.Errorf("Expected search updated to 'dice', got %q", filter.Search)
	}
	if filter.Category != "Games" || filter.MinPrice != 5.0 {
		t.Errorf("Unspecified fields must retain prior values, got %+v", filter)
	}

	catalog.ClearFilters()
	if filter := catalog.Filter(); filter != (models.Filter{}) {
		t.Errorf("Expected empty filter after clear, got %+v", filter)
	}
}

// overlappingFetches issues a fetch for category A and then one for
// category B, holds both in flight, and completes them in the order given
// by first/second. Channels pin the exact timing; no sleeps.
func overlappingFetches(t *testing.T, first, second string) *Catalog {
	t.Helper()

	started := map[string]chan struct{}{"A": make(chan struct{}), "B": make(chan struct{})}
	release := map[string]chan struct{}{"A": make(chan struct{}), "B": make(chan struct{})}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		ch, ok := release[category]
		if !ok {
			t.Errorf("Unexpected category %q", category)
			return
		}
		close(started[category])
		<-ch
		writeJSON(t, w, http.StatusOK, []models.Product{{Name: "from " + category, Category: category}})
	})
	client, _ := newTestClient(t, handler)
	catalog := NewCatalog(client)

	done := map[string]chan struct{}{"A": make(chan struct{}), "B": make(chan struct{})}
	fetch := func(category string) {
		go func() {
			catalog.LoadProducts(context.Background(), models.Filter{Category: category})
			close(done[category])
		}()
		<-started[category]
	}

	fetch("A")
	fetch("B")

	close(release[first])
	<-done[first]
	close(release[second])
	<-done[second]

	return catalog
}

// TestLastCompletedFetchWins pins the ordering rule for overlapping product
// fetches: whichever response completes last becomes the visible state.
// There is no sequence guard, so issue order is irrelevant.
func TestLastCompletedFetchWins(t *testing.T) {
	// A issued first but completing last: B is displaced by A.
	catalog := overlappingFetches(t, "B", "A")
	if got := catalog.Products(); len(got) != 1 || got[0].Name != "from A" {
		t.Errorf("Expected the last completed response (A) to be visible, got %+v", got)
	}

	// The filter-typing scenario: A issued first, B issued within the
	// debounce window and completing last. B's result is displayed.
	catalog = overlappingFetches(t, "A", "B")
	if got := catalog.Products(); len(got) != 1 || got[0].Name != "from B" {
		t.Errorf("Expected the last completed response (B) to be visible, got %+v", got)
	}
}

func TestLoadCategoriesReplacesWholesale(t *testing.T) {
	categories := []string{"Electronics", "Books"}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/categories" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, categories)
	})
	client, _ := newTestClient(t, handler)
	catalog := NewCatalog(client)

	if _, err := catalog.LoadCategories(context.Background()); err != nil {
		t.Fatal("Failed to load categories:", err)
	}

	categories = []string{"Games"}
	if _, err := catalog.LoadCategories(context.Background()); err != nil {
		t.Fatal("Failed to reload categories:", err)
	}

	if got := catalog.Categories(); len(got) != 1 || got[0] != "Games" {
		t.Errorf("Expected category list replaced wholesale, got %v", got)
	}
}

func TestProductCRUDReconciliation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, http.StatusOK, []models.Product{{ID: 1, Name: "Old", Category: "Misc", Price: 5}})
		case http.MethodPost:
			writeJSON(t, w, http.StatusCreated, models.Product{ID: 2, Name: "New", Category: "Misc", Price: 7})
		}
	})
	mux.HandleFunc("/products/1", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			writeJSON(t, w, http.StatusOK, models.Product{ID: 1, Name: "Renamed", Category: "Misc", Price: 6})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	client, _ := newTestClient(t, mux)
	catalog := NewCatalog(client)

	if _, err := catalog.LoadProducts(context.Background(), models.Filter{}); err != nil {
		t.Fatal("Failed to load products:", err)
	}

	created, err := catalog.CreateProduct(context.Background(), models.ProductInput{Name: "New", Category: "Misc", Price: 7})
	if err != nil {
		t.Fatal("Failed to create product:", err)
	}
	if created.ID != 2 {
		t.Errorf("Expected the server-assigned id, got %d", created.ID)
	}
	if got := catalog.Products(); len(got) != 2 {
		t.Errorf("Expected created product appended, got %+v", got)
	}

	updated, err := catalog.UpdateProduct(context.Background(), 1, models.ProductInput{Name: "Renamed", Category: "Misc", Price: 6})
	if err != nil {
		t.Fatal("Failed to update product:", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("Expected the server's copy, got %+v", updated)
	}
	got := catalog.Products()
	if got[0].Name != "Renamed" || got[0].Price != 6 {
		t.Errorf("Expected cached copy replaced with the server's response, got %+v", got[0])
	}

	if err := catalog.DeleteProduct(context.Background(), 1); err != nil {
		t.Fatal("Failed to delete product:", err)
	}
	got = catalog.Products()
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("Expected product 1 removed after confirmation, got %+v", got)
	}
}

func TestCategoryFetchKeepsUnrelatedError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadGateway, map[string]string{"message": "catalog unavailable"})
	})
	mux.HandleFunc("/products/categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []string{"Electronics"})
	})
	client, _ := newTestClient(t, mux)
	catalog := NewCatalog(client)

	if _, err := catalog.LoadProducts(context.Background(), models.Filter{}); err == nil {
		t.Fatal("Expected product fetch to fail")
	}
	if _, err := catalog.LoadCategories(context.Background()); err != nil {
		t.Fatal("Failed to load categories:", err)
	}

	// The recorded error is superseded only by a retry of the same
	// operation or an explicit clear, never by an unrelated success.
	if catalog.Error() != "catalog unavailable" {
		t.Errorf("Expected product error retained across category fetch, got %q", catalog.Error())
	}

	catalog.ClearError()
	if catalog.Error() != "" {
		t.Error("Expected explicit clear to erase the error")
	}
}

func TestLoadProductsFailureKeepsListAndRecordsMessage(t *testing.T) {
	fail := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			writeJSON(t, w, http.StatusBadGateway, map[string]string{"message": "catalog unavailable"})
			return
		}
		writeJSON(t, w, http.StatusOK, []models.Product{{ID: 1, Name: "Kept"}})
	})
	client, _ := newTestClient(t, handler)
	catalog := NewCatalog(client)

	if _, err := catalog.LoadProducts(context.Background(), models.Filter{}); err != nil {
		t.Fatal("Failed to load products:", err)
	}

	fail = true
	if _, err := catalog.LoadProducts(context.Background(), models.Filter{}); err == nil {
		t.Fatal("Expected fetch to fail")
	}

	if catalog.Error() != "catalog unavailable" {
		t.Errorf("Expected server message recorded, got %q", catalog.Error())
	}
	if got := catalog.Products(); len(got) != 1 || got[0].Name != "Kept" {
		t.Errorf("Failed fetch must leave the previous list, got %+v", got)
	}
}
