package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrApplicationNotFound is returned when a status update targets a missing row.
var ErrApplicationNotFound = errors.New("application not found")

// Store wraps the GORM handle with the queries the site needs. It is the
// relational implementation of the submission pipeline's Recorder.
type Store struct {
	db *gorm.DB
}

// NewStore returns a Store bound to db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreateContact inserts one contact submission and returns it with the
// server-assigned ID and timestamp filled in.
func (s *Store) CreateContact(ctx context.Context, sub ContactSubmission) (ContactSubmission, error) {
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		return ContactSubmission{}, fmt.Errorf("insert contact submission: %w", err)
	}
	return sub, nil
}

// CreateCareer inserts one career application.
func (s *Store) CreateCareer(ctx context.Context, app CareerApplication) (CareerApplication, error) {
	if app.Status == "" {
		app.Status = "New"
	}
	if err := s.db.WithContext(ctx).Create(&app).Error; err != nil {
		return CareerApplication{}, fmt.Errorf("insert career application: %w", err)
	}
	return app, nil
}

// ListContacts returns the newest contact submissions, at most limit rows.
func (s *Store) ListContacts(ctx context.Context, limit int) ([]ContactSubmission, error) {
	var rows []ContactSubmission
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list contact submissions: %w", err)
	}
	return rows, nil
}

// ListApplications returns the newest career applications, at most limit rows.
func (s *Store) ListApplications(ctx context.Context, limit int) ([]CareerApplication, error) {
	var rows []CareerApplication
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list career applications: %w", err)
	}
	return rows, nil
}

// UpdateApplicationStatus sets the workflow label on one application.
func (s *Store) UpdateApplicationStatus(ctx context.Context, id uint, status string) error {
	result := s.db.WithContext(ctx).
		Model(&CareerApplication{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("update application status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

// ContactCount reports how many contact submissions exist. Used by the
// persistence health probe.
func (s *Store) ContactCount(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&ContactSubmission{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count contact submissions: %w", err)
	}
	return count, nil
}

// Ping checks the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("unwrap db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}
