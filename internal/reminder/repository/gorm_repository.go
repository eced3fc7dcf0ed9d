package repository

import (
	"context"
	"time"

	"bookmark-backend/internal/reminder/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormReminderRepository implements ReminderRepository using GORM
type gormReminderRepository struct {
	db *gorm.DB
}

// NewGormReminderRepository creates a new GORM-based ReminderRepository
func NewGormReminderRepository(db *gorm.DB) ReminderRepository {
	return &gormReminderRepository{db: db}
}

func (r *gormReminderRepository) FindDue(ctx context.Context, now time.Time) ([]*domain.Reminder, error) {
	var reminders []*domain.Reminder
	err := r.db.WithContext(ctx).
		Where("due_at <= ? AND completed = ?", now, false).
		Order("due_at ASC").
		Find(&reminders).Error
	return reminders, err
}

func (r *gormReminderRepository) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Reminder, error) {
	var reminder domain.Reminder
	result := r.db.WithContext(ctx).
		Model(&reminder).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(patchValues(patch, time.Now()))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrReminderNotFound
	}
	return &reminder, nil
}

func (r *gormReminderRepository) Create(ctx context.Context, reminder *domain.Reminder) error {
	if reminder.ID == "" {
		reminder.ID = uuid.New().String()
	}
	now := time.Now()
	if reminder.CreatedAt.IsZero() {
		reminder.CreatedAt = now
	}
	reminder.UpdatedAt = now
	return r.db.WithContext(ctx).Create(reminder).Error
}

func (r *gormReminderRepository) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("completed = ? AND updated_at < ?", true, cutoff).
		Delete(&domain.Reminder{})
	return result.RowsAffected, result.Error
}

func (r *gormReminderRepository) GroupByStats(ctx context.Context) ([]domain.StatsRow, error) {
	var rows []domain.StatsRow
	err := r.db.WithContext(ctx).
		Model(&domain.Reminder{}).
		Select("channel, completed, email_sent, COUNT(*) AS count").
		Group("channel, completed, email_sent").
		Order("channel, completed, email_sent").
		Scan(&rows).Error
	return rows, err
}

func (r *gormReminderRepository) CountDue(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Reminder{}).
		Where("due_at <= ? AND completed = ?", now, false).
		Count(&count).Error
	return count, err
}

func (r *gormReminderRepository) CountUpcoming(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Reminder{}).
		Where("due_at > ? AND completed = ?", now, false).
		Count(&count).Error
	return count, err
}
