package repository

import (
	"testing"

	"github.com/whimsicalfrog/wf-admin/internal/models"
)

func TestRoomMaxDisplayOrder(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewRoomRepository(db)

	empty, err := repo.MaxDisplayOrder(3)
	if err != nil {
		t.Fatalf("max display order failed: %v", err)
	}
	if empty != -1 {
		t.Fatalf("empty room want -1 got %d", empty)
	}

	for i, categoryID := range []uint{1, 2} {
		assignment := &models.RoomCategoryAssignment{RoomNumber: 3, CategoryID: categoryID, DisplayOrder: i * 5}
		if err := repo.Create(assignment); err != nil {
			t.Fatalf("create assignment failed: %v", err)
		}
	}
	got, err := repo.MaxDisplayOrder(3)
	if err != nil {
		t.Fatalf("max display order failed: %v", err)
	}
	if got != 5 {
		t.Fatalf("max display order want 5 got %d", got)
	}
}
