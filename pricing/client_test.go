package pricing_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/tailored-agentic-units/roundtable/pricing"
)

// pagedServer serves total items in pages of pageSize, mimicking the retail
// pricing API's Items/NextPageLink shape.
func pagedServer(t *testing.T, total, pageSize int, calls *int) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++

		offset := 0
		if s := r.URL.Query().Get("offset"); s != "" {
			var err error
			offset, err = strconv.Atoi(s)
			if err != nil {
				t.Errorf("bad offset %q", s)
			}
		}

		var items []map[string]any
		for i := offset; i < total && i < offset+pageSize; i++ {
			items = append(items, map[string]any{
				"serviceName":   "Virtual Machines",
				"skuName":       fmt.Sprintf("Standard_E%d", i),
				"unitPrice":     0.5 + float64(i),
				"currencyCode":  "USD",
				"unitOfMeasure": "1 Hour",
				"armRegionName": "westeurope",
			})
		}

		next := ""
		if offset+pageSize < total {
			next = fmt.Sprintf("%s/?offset=%d", server.URL, offset+pageSize)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"Items":        items,
			"NextPageLink": next,
			"Count":        len(items),
		})
	}))
	return server
}

func TestGetPricing_SinglePage(t *testing.T) {
	calls := 0
	server := pagedServer(t, 3, 10, &calls)
	defer server.Close()

	client := pricing.NewClient(pricing.WithBaseURL(server.URL))

	page, err := client.GetPricing(context.Background(), pricing.Query{ServiceName: "Virtual Machines"})
	if err != nil {
		t.Fatalf("GetPricing failed: %v", err)
	}
	if len(page.Items) != 3 {
		t.Errorf("got %d items, want 3", len(page.Items))
	}
	if page.HasMore {
		t.Error("single page should not report more")
	}
	if page.Items[0].SKU != "Standard_E0" {
		t.Errorf("got SKU %q, want %q", page.Items[0].SKU, "Standard_E0")
	}
}

func TestGetAllPricing_Pagination(t *testing.T) {
	calls := 0
	server := pagedServer(t, 25, 10, &calls)
	defer server.Close()

	client := pricing.NewClient(pricing.WithBaseURL(server.URL))

	items, err := client.GetAllPricing(context.Background(), pricing.Query{ServiceName: "Virtual Machines"})
	if err != nil {
		t.Fatalf("GetAllPricing failed: %v", err)
	}
	if len(items) != 25 {
		t.Errorf("got %d items, want 25", len(items))
	}
	if calls != 3 {
		t.Errorf("made %d calls, want exactly 3 for 25 items in pages of 10", calls)
	}
}

func TestGetPricing_HasMoreOnlyOnIntermediatePages(t *testing.T) {
	calls := 0
	server := pagedServer(t, 25, 10, &calls)
	defer server.Close()

	client := pricing.NewClient(pricing.WithBaseURL(server.URL))

	q := pricing.Query{ServiceName: "Virtual Machines"}
	var pages []pricing.Page
	for {
		page, err := client.GetPricing(context.Background(), q)
		if err != nil {
			t.Fatalf("GetPricing failed: %v", err)
		}
		pages = append(pages, page)
		if !page.HasMore {
			break
		}
		q.Cursor = page.NextCursor
	}

	if len(pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(pages))
	}
	for i, page := range pages {
		wantMore := i < len(pages)-1
		if page.HasMore != wantMore {
			t.Errorf("page %d: HasMore = %v, want %v", i, page.HasMore, wantMore)
		}
	}
}

func TestGetPricing_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"Items": []any{}, "NextPageLink": "", "Count": 0})
	}))
	defer server.Close()

	client := pricing.NewClient(pricing.WithBaseURL(server.URL))

	_, err := client.GetPricing(context.Background(), pricing.Query{
		ServiceName: "Imaginary Service",
		Region:      "westeurope",
	})

	var notFound *pricing.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("got error %v, want *NotFoundError", err)
	}
	if notFound.ServiceName != "Imaginary Service" {
		t.Errorf("got service %q in error, want %q", notFound.ServiceName, "Imaginary Service")
	}

	var svcErr *pricing.ServiceError
	if errors.As(err, &svcErr) {
		t.Error("not-found must not be conflated with a transport failure")
	}
}

func TestGetPricing_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	client := pricing.NewClient(pricing.WithBaseURL(server.URL))

	_, err := client.GetPricing(context.Background(), pricing.Query{ServiceName: "Virtual Machines"})

	var svcErr *pricing.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("got error %v, want *ServiceError", err)
	}

	var notFound *pricing.NotFoundError
	if errors.As(err, &notFound) {
		t.Error("transport failure must not be conflated with not-found")
	}
}

func TestGetPricing_FilterQuery(t *testing.T) {
	var gotFilter string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFilter = r.URL.Query().Get("$filter")
		json.NewEncoder(w).Encode(map[string]any{
			"Items": []map[string]any{{"serviceName": "Virtual Machines", "skuName": "D2"}},
		})
	}))
	defer server.Close()

	client := pricing.NewClient(pricing.WithBaseURL(server.URL))

	_, err := client.GetPricing(context.Background(), pricing.Query{
		ServiceName: "Virtual Machines",
		Region:      "westeurope",
		Currency:    "EUR",
	})
	if err != nil {
		t.Fatalf("GetPricing failed: %v", err)
	}

	want := "serviceName eq 'Virtual Machines' and armRegionName eq 'westeurope' and currencyCode eq 'EUR'"
	if gotFilter != want {
		t.Errorf("got filter %q, want %q", gotFilter, want)
	}
}

func TestListServiceNames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"Items": []map[string]any{
				{"serviceName": "Virtual Machines"},
				{"serviceName": "Azure App Service"},
				{"serviceName": "Virtual Machines"},
				{"serviceName": "Storage"},
			},
		})
	}))
	defer server.Close()

	client := pricing.NewClient(pricing.WithBaseURL(server.URL))

	names, err := client.ListServiceNames(context.Background())
	if err != nil {
		t.Fatalf("ListServiceNames failed: %v", err)
	}

	want := []string{"Azure App Service", "Storage", "Virtual Machines"}
	if len(names) != len(want) {
		t.Fatalf("got %d names %v, want %d", len(names), names, len(want))
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("name %d: got %q, want %q", i, names[i], name)
		}
	}
}
