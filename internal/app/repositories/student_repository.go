package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/roster/internal/app/models"
	"github.com/yigit/roster/internal/pkg/apperrors"
	"github.com/yigit/roster/internal/pkg/dberrors"
	"github.com/yigit/roster/internal/pkg/logger"
)

const (
	studentsTable       = "students"
	photoPairConstraint = "students_photo_pair_check"
)

// studentColumns is the read projection; photo bytes are only loaded by GetPhoto.
var studentColumns = []string{"id", "name", "surname", "group_id", "photo IS NOT NULL AS has_photo", "photo_type"}

// StudentRepository handles student rows in PostgreSQL
type StudentRepository struct {
	db             *pgxpool.Pool
	sb             squirrel.StatementBuilderType
	acquireTimeout time.Duration
}

// NewStudentRepository creates a new StudentRepository. acquireTimeout bounds the wait for a pooled
// connection; zero leaves it to the caller's context.
func NewStudentRepository(db *pgxpool.Pool, acquireTimeout time.Duration) *StudentRepository {
	return &StudentRepository{
		db:             db,
		sb:             squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		acquireTimeout: acquireTimeout,
	}
}

// acquire takes a connection from the pool. Only the wait is bounded; the statement itself runs under ctx.
func (r *StudentRepository) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	acquireCtx := ctx
	if r.acquireTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, r.acquireTimeout)
		defer cancel()
	}

	conn, err := r.db.Acquire(acquireCtx)
	if err != nil {
		logger.Error().Err(err).Dur("timeout", r.acquireTimeout).Msg("Error acquiring database connection")
		return nil, fmt.Errorf("failed to acquire database connection: %w", err)
	}
	return conn, nil
}

// checkStoredPhoto re-validates the photo columns of a row read back from the table.
func checkStoredPhoto(hasPhoto bool, photoType *string) error {
	if hasPhoto != (photoType != nil) {
		return apperrors.ErrPhotoTypeMismatch
	}
	if photoType != nil && !models.IsAllowedMediaType(*photoType) {
		return apperrors.ErrInvalidStoredImage
	}
	return nil
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{}
	if err := row.Scan(&s.ID, &s.Name, &s.Surname, &s.GroupID, &s.HasPhoto, &s.PhotoType); err != nil {
		return nil, err
	}
	if err := checkStoredPhoto(s.HasPhoto, s.PhotoType); err != nil {
		logger.Error().Int64("studentID", s.ID).Err(err).Msg("Inconsistent photo columns")
		return nil, err
	}
	return s, nil
}

// GetAll retrieves every student ordered by id
func (r *StudentRepository) GetAll(ctx context.Context) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From(studentsTable).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all students query: %w", err)
	}

	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrStorageInvariant) {
				return nil, err
			}
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating student rows")
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// GetByID retrieves a student by id
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	if !models.FitsIntColumn(id) {
		return nil, apperrors.ErrStudentNotFound
	}

	sql, args, err := r.sb.Select(studentColumns...).
		From(studentsTable).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	s, err := scanStudent(conn.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		if apperrors.Is(err, apperrors.ErrStorageInvariant) {
			return nil, err
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}
	return s, nil
}

// GetPhoto loads only the photo columns of a student
func (r *StudentRepository) GetPhoto(ctx context.Context, id int64) (*models.Photo, error) {
	if !models.FitsIntColumn(id) {
		return nil, apperrors.ErrStudentNotFound
	}

	sql, args, err := r.sb.Select("photo", "photo_type").
		From(studentsTable).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get photo query: %w", err)
	}

	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	var (
		data      []byte
		photoType *string
	)
	if err := conn.QueryRow(ctx, sql, args...).Scan(&data, &photoType); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student photo")
		return nil, fmt.Errorf("error getting student photo: %w", err)
	}

	if err := checkStoredPhoto(data != nil, photoType); err != nil {
		logger.Error().Int64("studentID", id).Err(err).Msg("Inconsistent photo columns")
		return nil, err
	}
	if data == nil {
		return nil, apperrors.ErrPhotoNotFound
	}

	return &models.Photo{Data: data, MediaType: *photoType}, nil
}

// Create inserts a student and returns its id. photo may be nil.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student, photo *models.Photo) (int64, error) {
	values := map[string]interface{}{
		"name":     student.Name,
		"surname":  student.Surname,
		"group_id": student.GroupID,
	}
	if photo != nil {
		values["photo"] = photo.Data
		values["photo_type"] = photo.MediaType
	}

	sql, args, err := r.sb.Insert(studentsTable).
		SetMap(values).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create student query: %w", err)
	}

	conn, err := r.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	var id int64
	if err := conn.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsCheckConstraintError(err, photoPairConstraint) {
			return 0, apperrors.ErrPhotoTypeMismatch
		}
		logger.Error().Err(err).Msg("Error executing create student query")
		return 0, fmt.Errorf("error creating student: %w", err)
	}

	return id, nil
}

// Update replaces name, surname and group of a student. The photo columns are only written when
// photo is non-nil, and then both together.
func (r *StudentRepository) Update(ctx context.Context, id int64, student *models.Student, photo *models.Photo) error {
	if !models.FitsIntColumn(id) {
		return apperrors.ErrStudentNotFound
	}

	values := map[string]interface{}{
		"name":     student.Name,
		"surname":  student.Surname,
		"group_id": student.GroupID,
	}
	if photo != nil {
		values["photo"] = photo.Data
		values["photo_type"] = photo.MediaType
	}

	sql, args, err := r.sb.Update(studentsTable).
		SetMap(values).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	conn, err := r.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsCheckConstraintError(err, photoPairConstraint) {
			return apperrors.ErrPhotoTypeMismatch
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Delete removes a student. Deleting an id that does not exist, or cannot exist, is not an error.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	if !models.FitsIntColumn(id) {
		return nil
	}

	sql, args, err := r.sb.Delete(studentsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	conn, err := r.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}
	logger.Debug().Int64("studentID", id).Int64("rows", tag.RowsAffected()).Msg("Student delete executed")

	return nil
}

// CountByGroup counts the students referencing a group id. Ids outside the column range count 0.
func (r *StudentRepository) CountByGroup(ctx context.Context, groupID int64) (int64, error) {
	if !models.FitsIntColumn(groupID) {
		return 0, nil
	}

	sql, args, err := r.sb.Select("COUNT(*)").
		From(studentsTable).
		Where(squirrel.Eq{"group_id": groupID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	conn, err := r.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	var count int64
	if err := conn.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Int64("groupID", groupID).Msg("Error counting students in group")
		return 0, fmt.Errorf("error counting students by group: %w", err)
	}

	return count, nil
}
