package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/formahub/formahub-api/internal/models"
)

// SessionRepository defines persistence operations for sessions and attendance.
type SessionRepository interface {
	ListByTraining(ctx context.Context, trainingID uint) ([]models.Session, error)
	ListAttendanceByTrainings(ctx context.Context, trainingIDs []uint) ([]models.AttendanceRecord, error)
	Create(ctx context.Context, session *models.Session) error
	RecordAttendance(ctx context.Context, record *models.AttendanceRecord) error
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository instantiates the repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) ListByTraining(ctx context.Context, trainingID uint) ([]models.Session, error) {
	var sessions []models.Session
	if err := r.db.WithContext(ctx).
		Preload("Attendance").
		Where("training_id = ?", trainingID).
		Order("starts_at ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *sessionRepository) ListAttendanceByTrainings(ctx context.Context, trainingIDs []uint) ([]models.AttendanceRecord, error) {
	if len(trainingIDs) == 0 {
		return []models.AttendanceRecord{}, nil
	}

	var records []models.AttendanceRecord
	if err := r.db.WithContext(ctx).
		Joins("JOIN sessions ON sessions.id = attendance_records.session_id").
		Where("sessions.training_id IN ?", trainingIDs).
		Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) RecordAttendance(ctx context.Context, record *models.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}
