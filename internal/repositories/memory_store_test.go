package repositories

import (
	"context"
	"sync"
	"testing"

	"tiyende/internal/domain/models"
)

func TestMemoryStoreContract(t *testing.T) {
	storeContract(t, func(*testing.T) Store { return NewMemoryStore() })
}

func TestMemoryStore_RouteDaysAreCopied(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	v, _ := s.CreateVendor(ctx, testVendor("A"))
	in := testRoute(v.ID)
	r, err := s.CreateRoute(ctx, in)
	if err != nil {
		t.Fatalf("create route: %v", err)
	}
	in.DaysOfWeek[0] = "Sunday"
	r.DaysOfWeek[1] = "Sunday"

	got, _ := s.GetRoute(ctx, r.ID)
	if got.DaysOfWeek[0] != "Monday" || got.DaysOfWeek[1] != "Friday" {
		t.Fatalf("stored days mutated through caller slice: %v", got.DaysOfWeek)
	}
}

func TestMemoryStore_ActivityDetailsAreCopied(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	details := models.Details{"vendorName": "Kobs"}
	if _, err := s.CreateActivity(ctx, models.Activity{Action: "Vendor created", Details: details}); err != nil {
		t.Fatalf("create activity: %v", err)
	}
	details["vendorName"] = "changed"

	list, _ := s.ListActivities(ctx, 1)
	if list[0].Details["vendorName"] != "Kobs" {
		t.Fatalf("details mutated: %v", list[0].Details)
	}
}

func TestMemoryStore_ConcurrentCreatesGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	const n = 50

	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.CreateVendor(ctx, testVendor("V"))
			if err != nil {
				t.Errorf("create vendor: %v", err)
				return
			}
			ids <- v.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d vendors, got %d", n, len(seen))
	}
}
