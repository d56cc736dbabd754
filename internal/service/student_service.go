package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/studreg-api/internal/models"
	appErrors "github.com/noah-isme/studreg-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	Create(ctx context.Context, input models.StudentInput) (*models.Student, error)
	Update(ctx context.Context, id int64, input models.StudentInput) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
}

type listCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const listCacheKey = "students:list"

// StudentService handles student CRUD use-cases. Field-level payload
// validation is a client concern; malformed input that reaches a column
// constraint surfaces as a persistence error.
type StudentService struct {
	repo     studentRepository
	cache    listCache
	cacheTTL time.Duration
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewStudentService constructs the student service. A nil cache disables the
// roster list cache.
func NewStudentService(repo studentRepository, cache listCache, cacheTTL time.Duration, metrics *MetricsService, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, cache: cache, cacheTTL: cacheTTL, metrics: metrics, logger: logger}
}

// List returns the full roster in ascending id order.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	if s.cache != nil {
		start := time.Now()
		var cached []models.Student
		err := s.cache.Get(ctx, listCacheKey, &cached)
		s.metrics.RecordCacheOperation(err == nil, time.Since(start))
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("list cache read failed", zap.Error(err))
		}
	}

	start := time.Now()
	students, err := s.repo.List(ctx)
	s.metrics.ObserveDBQuery("students_list", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to list students")
	}

	if s.cache != nil {
		writeStart := time.Now()
		if err := s.cache.Set(ctx, listCacheKey, students, s.cacheTTL); err != nil {
			s.logger.Warn("list cache write failed", zap.Error(err))
		}
		s.metrics.ObserveCacheWrite(time.Since(writeStart))
	}

	return students, nil
}

// Create registers a new student. The store assigns id and registered_at.
func (s *StudentService) Create(ctx context.Context, input models.StudentInput) (*models.Student, error) {
	start := time.Now()
	student, err := s.repo.Create(ctx, input)
	s.metrics.ObserveDBQuery("students_create", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to register student")
	}

	s.invalidateList(ctx)
	s.logger.Info("student registered", zap.Int64("id", student.ID), zap.String("email", student.Email))
	return student, nil
}

// Update modifies the mutable fields of an existing student.
func (s *StudentService) Update(ctx context.Context, id int64, input models.StudentInput) (*models.Student, error) {
	start := time.Now()
	student, err := s.repo.Update(ctx, id, input)
	s.metrics.ObserveDBQuery("students_update", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to update student")
	}

	s.invalidateList(ctx)
	s.logger.Info("student updated", zap.Int64("id", student.ID))
	return student, nil
}

// Delete removes a student permanently.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	err := s.repo.Delete(ctx, id)
	s.metrics.ObserveDBQuery("students_delete", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to delete student")
	}

	s.invalidateList(ctx)
	s.logger.Info("student deleted", zap.Int64("id", id))
	return nil
}

// invalidateList drops the cached roster so the next list reads the store.
func (s *StudentService) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		s.logger.Warn("list cache invalidation failed", zap.Error(err))
	}
}
