package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/formahub/formahub-api/internal/models"
)

// CreathonRepository defines persistence operations for creathons and their teams.
type CreathonRepository interface {
	GetByID(ctx context.Context, id uint) (models.Creathon, error)
	Create(ctx context.Context, creathon *models.Creathon) error
	ReplaceMembers(ctx context.Context, creathonID uint, role string, members []models.CreathonMember) error
	ListMembers(ctx context.Context, creathonID uint, role string) ([]models.CreathonMember, error)
	GetMember(ctx context.Context, memberID uint) (models.CreathonMember, error)
	UpdateMember(ctx context.Context, member *models.CreathonMember) error
}

type creathonRepository struct {
	db *gorm.DB
}

// NewCreathonRepository instantiates the repository.
func NewCreathonRepository(db *gorm.DB) CreathonRepository {
	return &creathonRepository{db: db}
}

func (r *creathonRepository) GetByID(ctx context.Context, id uint) (models.Creathon, error) {
	var creathon models.Creathon
	if err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("role ASC, name ASC")
		}).
		First(&creathon, id).Error; err != nil {
		return models.Creathon{}, err
	}

	return creathon, nil
}

func (r *creathonRepository) Create(ctx context.Context, creathon *models.Creathon) error {
	return r.db.WithContext(ctx).Create(creathon).Error
}

// ReplaceMembers swaps the whole member list for one role in a single
// transaction, leaving the other role untouched.
func (r *creathonRepository) ReplaceMembers(ctx context.Context, creathonID uint, role string, members []models.CreathonMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("creathon_id = ? AND role = ?", creathonID, role).
			Delete(&models.CreathonMember{}).Error; err != nil {
			return err
		}
		for i := range members {
			members[i].CreathonID = creathonID
			members[i].Role = role
		}
		if len(members) == 0 {
			return nil
		}
		return tx.Create(&members).Error
	})
}

func (r *creathonRepository) ListMembers(ctx context.Context, creathonID uint, role string) ([]models.CreathonMember, error) {
	query := r.db.WithContext(ctx).Where("creathon_id = ?", creathonID)
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var members []models.CreathonMember
	if err := query.Order("name ASC").Find(&members).Error; err != nil {
		return nil, err
	}

	return members, nil
}

func (r *creathonRepository) GetMember(ctx context.Context, memberID uint) (models.CreathonMember, error) {
	var member models.CreathonMember
	if err := r.db.WithContext(ctx).First(&member, memberID).Error; err != nil {
		return models.CreathonMember{}, err
	}

	return member, nil
}

func (r *creathonRepository) UpdateMember(ctx context.Context, member *models.CreathonMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}
