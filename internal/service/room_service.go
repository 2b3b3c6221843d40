package service

import (
	"github.com/whimsicalfrog/wf-admin/internal/models"
	"github.com/whimsicalfrog/wf-admin/internal/repository"

	"gorm.io/gorm"
)

// RoomService 房间分类陈列服务，每个房间至多一个主分类
type RoomService struct {
	repo         repository.RoomRepository
	categoryRepo repository.CategoryRepository
}

// NewRoomService 创建房间陈列服务
func NewRoomService(repo repository.RoomRepository, categoryRepo repository.CategoryRepository) *RoomService {
	return &RoomService{repo: repo, categoryRepo: categoryRepo}
}

// List 房间内分类
func (s *RoomService) List(room int) ([]models.RoomCategoryAssignment, error) {
	if err := validateRoom(room); err != nil {
		return nil, err
	}
	return s.repo.ListByRoom(room)
}

// Assign 分类加入房间，追加到末尾；isPrimary 时替换原主分类
func (s *RoomService) Assign(room int, categoryID uint, isPrimary bool) (*models.RoomCategoryAssignment, error) {
	if err := validateRoom(room); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	var assignment *models.RoomCategoryAssignment
	err = s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.Get(room, categoryID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrRoomAssignmentExists
		}
		maxOrder, err := repo.MaxDisplayOrder(room)
		if err != nil {
			return err
		}
		if isPrimary {
			if err := repo.ClearPrimary(room); err != nil {
				return err
			}
		}
		assignment = &models.RoomCategoryAssignment{
			RoomNumber:   room,
			CategoryID:   categoryID,
			IsPrimary:    isPrimary,
			DisplayOrder: maxOrder + 1,
		}
		return repo.Create(assignment)
	})
	if err != nil {
		return nil, err
	}
	assignment.Category = category
	return assignment, nil
}

// Remove 移出房间
func (s *RoomService) Remove(room int, categoryID uint) error {
	if err := validateRoom(room); err != nil {
		return err
	}
	deleted, err := s.repo.Delete(room, categoryID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrRoomAssignmentMissing
	}
	return nil
}

// SetPrimary 设为主分类，同房间其他分类取消主标记
func (s *RoomService) SetPrimary(room int, categoryID uint) error {
	if err := validateRoom(room); err != nil {
		return err
	}
	return s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.Get(room, categoryID)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrRoomAssignmentMissing
		}
		if err := repo.ClearPrimary(room); err != nil {
			return err
		}
		return repo.SetPrimary(room, categoryID)
	})
}

// Reorder 按给定分类顺序重排，列表须与房间现有分类完全一致
func (s *RoomService) Reorder(room int, categoryIDs []uint) ([]models.RoomCategoryAssignment, error) {
	if err := validateRoom(room); err != nil {
		return nil, err
	}
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.ListByRoom(room)
		if err != nil {
			return err
		}
		if len(current) != len(categoryIDs) {
			return newValidationError("category_ids", "must list every category in room %d", room)
		}
		assigned := make(map[uint]bool, len(current))
		for _, a := range current {
			assigned[a.CategoryID] = false
		}
		for _, id := range categoryIDs {
			seen, ok := assigned[id]
			if !ok || seen {
				return newValidationError("category_ids", "category %d not assigned to room %d or listed twice", id, room)
			}
			assigned[id] = true
		}
		for order, id := range categoryIDs {
			if err := repo.UpdateDisplayOrder(room, id, order); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.ListByRoom(room)
}

func validateRoom(room int) error {
	if room < 0 {
		return newValidationError("room", "must be >= 0")
	}
	return nil
}
