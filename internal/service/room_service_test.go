package service

import (
	"errors"
	"testing"

	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/repository"
)

func setupRoomService(t *testing.T) (*RoomService, []uint) {
	t.Helper()
	db := openServiceTestDB(t)
	ids := make([]uint, 0, 3)
	for _, c := range []models.Category{{Name: "T-Shirts", Code: "TS"}, {Name: "Tumblers", Code: "TU"}, {Name: "Artwork", Code: "AW"}} {
		category := c
		if err := db.Create(&category).Error; err != nil {
			t.Fatalf("seed category failed: %v", err)
		}
		ids = append(ids, category.ID)
	}
	return NewRoomService(repository.NewRoomRepository(db), repository.NewCategoryRepository(db)), ids
}

func primaryCount(list []models.RoomCategoryAssignment) int {
	n := 0
	for _, a := range list {
		if a.IsPrimary {
			n++
		}
	}
	return n
}

func TestRoomAssignAndPrimary(t *testing.T) {
	svc, ids := setupRoomService(t)

	first, err := svc.Assign(2, ids[0], true)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if first.DisplayOrder != 0 || first.Category == nil || first.Category.Name != "T-Shirts" {
		t.Fatalf("unexpected assignment: %+v", first)
	}
	second, err := svc.Assign(2, ids[1], true)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if second.DisplayOrder != 1 {
		t.Fatalf("new assignment should go last, got %d", second.DisplayOrder)
	}

	list, err := svc.List(2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if primaryCount(list) != 1 || list[0].CategoryID != ids[1] {
		t.Fatalf("exactly one primary expected, got %+v", list)
	}

	if err := svc.SetPrimary(2, ids[0]); err != nil {
		t.Fatalf("set primary failed: %v", err)
	}
	list, _ = svc.List(2)
	if primaryCount(list) != 1 || list[0].CategoryID != ids[0] {
		t.Fatalf("primary should move, got %+v", list)
	}

	if _, err := svc.Assign(2, ids[0], false); !errors.Is(err, ErrRoomAssignmentExists) {
		t.Fatalf("expected ErrRoomAssignmentExists, got %v", err)
	}
	if _, err := svc.Assign(2, 999, false); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	if err := svc.SetPrimary(2, ids[2]); !errors.Is(err, ErrRoomAssignmentMissing) {
		t.Fatalf("expected ErrRoomAssignmentMissing, got %v", err)
	}
	if _, err := svc.List(-1); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRoomReorderAndRemove(t *testing.T) {
	svc, ids := setupRoomService(t)
	for _, id := range ids {
		if _, err := svc.Assign(1, id, false); err != nil {
			t.Fatalf("assign failed: %v", err)
		}
	}

	list, err := svc.Reorder(1, []uint{ids[2], ids[0], ids[1]})
	if err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	if list[0].CategoryID != ids[2] || list[1].CategoryID != ids[0] || list[2].CategoryID != ids[1] {
		t.Fatalf("unexpected order: %+v", list)
	}

	if _, err := svc.Reorder(1, []uint{ids[0], ids[0], ids[1]}); !errors.Is(err, ErrValidation) {
		t.Fatalf("duplicate ids should fail, got %v", err)
	}
	if _, err := svc.Reorder(1, []uint{ids[0]}); !errors.Is(err, ErrValidation) {
		t.Fatalf("partial list should fail, got %v", err)
	}

	if err := svc.Remove(1, ids[0]); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := svc.Remove(1, ids[0]); !errors.Is(err, ErrRoomAssignmentMissing) {
		t.Fatalf("expected ErrRoomAssignmentMissing, got %v", err)
	}
}
