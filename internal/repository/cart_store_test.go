package repository

import (
	"errors"
	"sync"
	"testing"
)

func TestCartStoreAddMergesLines(t *testing.T) {
	s := NewCartStore()

	lines, err := s.Add("u1", 7, 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("expected one line with qty 2, got %+v", lines)
	}

	// same product merges, not a second line
	lines, err = s.Add("u1", 7, 3, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != 5 {
		t.Fatalf("expected merged qty 5, got %+v", lines)
	}
}

func TestCartStoreAddRespectsStockCap(t *testing.T) {
	s := NewCartStore()

	if _, err := s.Add("u1", 7, 5, 4); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	if _, err := s.Add("u1", 7, 3, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// merged 3+2 exceeds stock 4, cart unchanged
	if _, err := s.Add("u1", 7, 2, 4); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock on merge, got %v", err)
	}
	lines := s.Lines("u1")
	if len(lines) != 1 || lines[0].Quantity != 3 {
		t.Fatalf("expected cart unchanged at qty 3, got %+v", lines)
	}
}

func TestCartStoreSetQuantity(t *testing.T) {
	s := NewCartStore()
	if _, err := s.Add("u1", 1, 2, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines, err := s.SetQuantity("u1", 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines[0].Quantity != 5 {
		t.Fatalf("expected qty 5, got %d", lines[0].Quantity)
	}

	// zero or negative removes the line
	lines, err = s.SetQuantity("u1", 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", lines)
	}

	if _, err := s.SetQuantity("u1", 1, 3); !errors.Is(err, ErrCartLineNotFound) {
		t.Fatalf("expected ErrCartLineNotFound, got %v", err)
	}
}

func TestCartStoreRemoveAndClear(t *testing.T) {
	s := NewCartStore()
	s.Add("u1", 1, 1, 10)
	s.Add("u1", 2, 1, 10)

	lines := s.Remove("u1", 1)
	if len(lines) != 1 || lines[0].ProductID != 2 {
		t.Fatalf("expected only product 2 left, got %+v", lines)
	}

	// removing a missing product is a no-op
	lines = s.Remove("u1", 99)
	if len(lines) != 1 {
		t.Fatalf("expected cart unchanged, got %+v", lines)
	}

	s.Clear("u1")
	if len(s.Lines("u1")) != 0 {
		t.Fatalf("expected cleared cart")
	}
}

func TestCartStoreIsolatesUsers(t *testing.T) {
	s := NewCartStore()
	s.Add("alice", 1, 1, 10)
	s.Add("bob", 2, 2, 10)

	if lines := s.Lines("alice"); len(lines) != 1 || lines[0].ProductID != 1 {
		t.Fatalf("alice cart wrong: %+v", lines)
	}
	if lines := s.Lines("bob"); len(lines) != 1 || lines[0].ProductID != 2 {
		t.Fatalf("bob cart wrong: %+v", lines)
	}
}

func TestCartStoreConcurrentAdds(t *testing.T) {
	s := NewCartStore()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			s.Add("u1", 1, 1, workers)
		}()
	}
	wg.Wait()

	lines := s.Lines("u1")
	if len(lines) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(lines))
	}
	if lines[0].Quantity != workers {
		t.Fatalf("expected qty %d, got %d", workers, lines[0].Quantity)
	}
}
