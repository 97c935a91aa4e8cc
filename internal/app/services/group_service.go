package services

import (
	"context"
	"strings"

	"github.com/yigit/roster/internal/app/models"
	"github.com/yigit/roster/internal/pkg/apperrors"
	"github.com/yigit/roster/internal/pkg/logger"
)

// GroupService defines the group operations exposed over HTTP
type GroupService interface {
	GetAllGroups(ctx context.Context) ([]*models.Group, error)
	GetGroupByID(ctx context.Context, id int64) (*models.Group, error)
	CreateGroup(ctx context.Context, name string) (*models.Group, error)
	UpdateGroup(ctx context.Context, id int64, name string) (*models.Group, error)
	CanDeleteGroup(ctx context.Context, id int64) (bool, error)
	DeleteGroup(ctx context.Context, id int64) error
}

type groupServiceImpl struct {
	groups   GroupStore
	students StudentCounter
}

// NewGroupService creates a new group service instance
func NewGroupService(groups GroupStore, students StudentCounter) GroupService {
	return &groupServiceImpl{
		groups:   groups,
		students: students,
	}
}

func validateGroupName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.NewValidationError(nil, "group name cannot be empty")
	}
	return name, nil
}

// GetAllGroups retrieves every group ordered by id
func (s *groupServiceImpl) GetAllGroups(ctx context.Context) ([]*models.Group, error) {
	groups, err := s.groups.GetAll(ctx)
	if err != nil {
		return nil, passThrough(err, "error retrieving groups")
	}
	return groups, nil
}

// GetGroupByID retrieves a group by ID
func (s *groupServiceImpl) GetGroupByID(ctx context.Context, id int64) (*models.Group, error) {
	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, passThrough(err, "error retrieving group %d", id)
	}
	return group, nil
}

// CreateGroup stores a group under the next free id
func (s *groupServiceImpl) CreateGroup(ctx context.Context, name string) (*models.Group, error) {
	name, err := validateGroupName(name)
	if err != nil {
		return nil, err
	}

	group, err := s.groups.Create(ctx, name)
	if err != nil {
		return nil, passThrough(err, "error creating group")
	}

	logger.Info().Int64("groupID", group.ID).Str("name", group.Name).Msg("Group created")
	return group, nil
}

// UpdateGroup renames a group
func (s *groupServiceImpl) UpdateGroup(ctx context.Context, id int64, name string) (*models.Group, error) {
	name, err := validateGroupName(name)
	if err != nil {
		return nil, err
	}

	group, err := s.groups.Update(ctx, id, name)
	if err != nil {
		return nil, passThrough(err, "error updating group %d", id)
	}
	return group, nil
}

// CanDeleteGroup reports whether no student references the group.
func (s *groupServiceImpl) CanDeleteGroup(ctx context.Context, id int64) (bool, error) {
	count, err := s.students.CountByGroup(ctx, id)
	if err != nil {
		return false, passThrough(err, "error counting students of group %d", id)
	}
	return count == 0, nil
}

// DeleteGroup removes a group once no student references it. The check and the delete run
// against different stores with nothing holding them together: a student created for the group
// in between is left with a dangling reference.
func (s *groupServiceImpl) DeleteGroup(ctx context.Context, id int64) error {
	ok, err := s.CanDeleteGroup(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		logger.Info().Int64("groupID", id).Msg("Refusing to delete group with students")
		return apperrors.ErrGroupHasStudents
	}

	if err := s.groups.Delete(ctx, id); err != nil {
		return passThrough(err, "error deleting group %d", id)
	}

	logger.Info().Int64("groupID", id).Msg("Group deleted")
	return nil
}
