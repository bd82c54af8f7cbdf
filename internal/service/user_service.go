package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/library-purchase-api/internal/models"
	appErrors "github.com/noah-isme/library-purchase-api/pkg/errors"
)

type teacherLister interface {
	ListTeachers(ctx context.Context) ([]models.User, error)
}

// UserService exposes user directory lookups for sheet assignment and
// consolidation pickers.
type UserService struct {
	repo   teacherLister
	logger *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(repo teacherLister, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, logger: logger}
}

// ListTeachers returns active teacher accounts without password hashes.
func (s *UserService) ListTeachers(ctx context.Context) ([]models.User, error) {
	teachers, err := s.repo.ListTeachers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	for i := range teachers {
		teachers[i].PasswordHash = ""
	}
	return teachers, nil
}
