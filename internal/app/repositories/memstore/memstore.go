// Package memstore keeps students and groups in memory with the same observable behaviour as the
// PostgreSQL and MongoDB repositories. It backs handler and service tests.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/yigit/roster/internal/app/models"
	"github.com/yigit/roster/internal/pkg/apperrors"
)

type studentRow struct {
	student models.Student
	photo   *models.Photo
}

// Students is an in-memory student table. Setting Err makes every call fail with it.
type Students struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*studentRow

	Err error
}

// NewStudents creates an empty student table
func NewStudents() *Students {
	return &Students{nextID: 1, rows: map[int64]*studentRow{}}
}

func (s *Students) project(row *studentRow) *models.Student {
	out := row.student
	out.HasPhoto = row.photo != nil
	out.PhotoType = nil
	if row.photo != nil {
		mediaType := row.photo.MediaType
		out.PhotoType = &mediaType
	}
	return &out
}

func (s *Students) GetAll(_ context.Context) ([]*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	ids := make([]int64, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []*models.Student{}
	for _, id := range ids {
		out = append(out, s.project(s.rows[id]))
	}
	return out, nil
}

func (s *Students) GetByID(_ context.Context, id int64) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if !models.FitsIntColumn(id) {
		return nil, apperrors.ErrStudentNotFound
	}

	row, ok := s.rows[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return s.project(row), nil
}

func (s *Students) GetPhoto(_ context.Context, id int64) (*models.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if !models.FitsIntColumn(id) {
		return nil, apperrors.ErrStudentNotFound
	}

	row, ok := s.rows[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	if row.photo == nil {
		return nil, apperrors.ErrPhotoNotFound
	}
	photo := *row.photo
	photo.Data = append([]byte(nil), row.photo.Data...)
	return &photo, nil
}

func copyPhoto(p *models.Photo) *models.Photo {
	if p == nil {
		return nil
	}
	return &models.Photo{Data: append([]byte(nil), p.Data...), MediaType: p.MediaType}
}

func (s *Students) Create(_ context.Context, student *models.Student, photo *models.Photo) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}

	id := s.nextID
	s.nextID++
	row := &studentRow{student: *student, photo: copyPhoto(photo)}
	row.student.ID = id
	s.rows[id] = row
	return id, nil
}

func (s *Students) Update(_ context.Context, id int64, student *models.Student, photo *models.Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if !models.FitsIntColumn(id) {
		return apperrors.ErrStudentNotFound
	}

	row, ok := s.rows[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	row.student.Name = student.Name
	row.student.Surname = student.Surname
	row.student.GroupID = student.GroupID
	if photo != nil {
		row.photo = copyPhoto(photo)
	}
	return nil
}

func (s *Students) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.rows, id)
	return nil
}

func (s *Students) CountByGroup(_ context.Context, groupID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	if !models.FitsIntColumn(groupID) {
		return 0, nil
	}

	var n int64
	for _, row := range s.rows {
		if row.student.GroupID == groupID {
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored students
func (s *Students) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// Groups is an in-memory group collection using max+1 id allocation.
type Groups struct {
	mu     sync.Mutex
	groups map[int64]string

	Err error
	// Deletes counts calls that reached Delete.
	Deletes int
}

// NewGroups creates an empty group collection
func NewGroups() *Groups {
	return &Groups{groups: map[int64]string{}}
}

func (g *Groups) GetAll(_ context.Context) ([]*models.Group, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return nil, g.Err
	}

	out := []*models.Group{}
	for id, name := range g.groups {
		out = append(out, &models.Group{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (g *Groups) GetByID(_ context.Context, id int64) (*models.Group, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return nil, g.Err
	}

	name, ok := g.groups[id]
	if !ok {
		return nil, apperrors.ErrGroupNotFound
	}
	return &models.Group{ID: id, Name: name}, nil
}

func (g *Groups) Create(_ context.Context, name string) (*models.Group, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return nil, g.Err
	}

	next := int64(0)
	for id := range g.groups {
		if id+1 > next {
			next = id + 1
		}
	}
	g.groups[next] = name
	return &models.Group{ID: next, Name: name}, nil
}

func (g *Groups) Update(_ context.Context, id int64, name string) (*models.Group, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return nil, g.Err
	}

	if _, ok := g.groups[id]; !ok {
		return nil, apperrors.ErrGroupNotFound
	}
	g.groups[id] = name
	return &models.Group{ID: id, Name: name}, nil
}

func (g *Groups) Delete(_ context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Deletes++
	if g.Err != nil {
		return g.Err
	}

	if _, ok := g.groups[id]; !ok {
		return apperrors.ErrGroupNotFound
	}
	delete(g.groups, id)
	return nil
}
