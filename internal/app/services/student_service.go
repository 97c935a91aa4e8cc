package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/roster/internal/app/forms"
	"github.com/yigit/roster/internal/app/models"
	"github.com/yigit/roster/internal/pkg/apperrors"
	"github.com/yigit/roster/internal/pkg/logger"
)

// StudentService defines the student operations exposed over HTTP
type StudentService interface {
	GetAllStudents(ctx context.Context) ([]*models.Student, error)
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	GetStudentPhoto(ctx context.Context, id int64) (*models.Photo, error)
	CreateStudent(ctx context.Context, form *forms.StudentForm) (*models.Student, error)
	UpdateStudent(ctx context.Context, id int64, form *forms.StudentForm) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
}

type studentServiceImpl struct {
	store StudentStore
}

// NewStudentService creates a new student service instance
func NewStudentService(store StudentStore) StudentService {
	return &studentServiceImpl{store: store}
}

// passThrough keeps typed application errors intact and wraps driver failures with context.
func passThrough(err error, format string, args ...interface{}) error {
	var ce *apperrors.CustomError
	if errors.As(err, &ce) {
		return err
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// GetAllStudents retrieves every student
func (s *studentServiceImpl) GetAllStudents(ctx context.Context) ([]*models.Student, error) {
	students, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, passThrough(err, "error retrieving students")
	}
	return students, nil
}

// GetStudentByID retrieves a student by ID
func (s *studentServiceImpl) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, passThrough(err, "error retrieving student %d", id)
	}
	return student, nil
}

// GetStudentPhoto retrieves the stored photo of a student
func (s *studentServiceImpl) GetStudentPhoto(ctx context.Context, id int64) (*models.Photo, error) {
	photo, err := s.store.GetPhoto(ctx, id)
	if err != nil {
		return nil, passThrough(err, "error retrieving photo of student %d", id)
	}
	return photo, nil
}

// CreateStudent stores a new student. The group reference is not checked against the group store.
func (s *studentServiceImpl) CreateStudent(ctx context.Context, form *forms.StudentForm) (*models.Student, error) {
	if form == nil {
		return nil, apperrors.NewBadRequestError("student form is required")
	}

	student := form.Student()
	id, err := s.store.Create(ctx, student, form.Photo)
	if err != nil {
		return nil, passThrough(err, "error creating student")
	}
	student.ID = id

	logger.Info().Int64("studentID", id).Int64("groupID", student.GroupID).Bool("photo", student.HasPhoto).Msg("Student created")
	return student, nil
}

// UpdateStudent replaces a student's fields. Without a photo in the form the stored one is kept.
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, form *forms.StudentForm) (*models.Student, error) {
	if form == nil {
		return nil, apperrors.NewBadRequestError("student form is required")
	}
	if form.ID != nil && *form.ID != id {
		logger.Debug().Int64("pathID", id).Int64("formID", *form.ID).Msg("Ignoring student id from form body")
	}

	if err := s.store.Update(ctx, id, form.Student(), form.Photo); err != nil {
		return nil, passThrough(err, "error updating student %d", id)
	}

	// The photo columns may be untouched, so read back the stored projection.
	student, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, passThrough(err, "error reading updated student %d", id)
	}
	return student, nil
}

// DeleteStudent removes a student; a missing id is not an error
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return passThrough(err, "error deleting student %d", id)
	}
	return nil
}
