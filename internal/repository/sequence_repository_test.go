package repository

import "testing"

func TestSequenceReserveRespectsFloor(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewSequenceRepository(db)

	first, err := repo.Reserve("order_item", 41, 3)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if first != 42 {
		t.Fatalf("first value want 42 got %d", first)
	}

	next, err := repo.Reserve("order_item", 10, 1)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if next != 45 {
		t.Fatalf("next value want 45 got %d", next)
	}
}

func TestSequenceReserveIndependentNames(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewSequenceRepository(db)

	a, err := repo.Reserve("a", 0, 1)
	if err != nil {
		t.Fatalf("reserve a failed: %v", err)
	}
	b, err := repo.Reserve("b", 0, 1)
	if err != nil {
		t.Fatalf("reserve b failed: %v", err)
	}
	if a != 1 || b != 1 {
		t.Fatalf("independent sequences should start at 1, got a=%d b=%d", a, b)
	}
}
