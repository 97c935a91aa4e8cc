package services

import (
	"context"

	"github.com/yigit/roster/internal/app/models"
)

// StudentStore is the relational side the student service and the group guard depend on.
type StudentStore interface {
	GetAll(ctx context.Context) ([]*models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetPhoto(ctx context.Context, id int64) (*models.Photo, error)
	Create(ctx context.Context, student *models.Student, photo *models.Photo) (int64, error)
	Update(ctx context.Context, id int64, student *models.Student, photo *models.Photo) error
	Delete(ctx context.Context, id int64) error
	StudentCounter
}

// StudentCounter answers the referential count used before a group is deleted.
type StudentCounter interface {
	CountByGroup(ctx context.Context, groupID int64) (int64, error)
}

// GroupStore is the document side of the group service.
type GroupStore interface {
	GetAll(ctx context.Context) ([]*models.Group, error)
	GetByID(ctx context.Context, id int64) (*models.Group, error)
	Create(ctx context.Context, name string) (*models.Group, error)
	Update(ctx context.Context, id int64, name string) (*models.Group, error)
	Delete(ctx context.Context, id int64) error
}

// Services holds the application services
type Services struct {
	StudentService StudentService
	GroupService   GroupService
}

// NewServices wires services over their stores
func NewServices(students StudentStore, groups GroupStore) *Services {
	return &Services{
		StudentService: NewStudentService(students),
		GroupService:   NewGroupService(groups, students),
	}
}
