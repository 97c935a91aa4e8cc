package forms

import (
	"net/http"
	"strconv"

	"github.com/yigit/roster/internal/app/models"
)

// Student form field names, as posted by the companion UI.
const (
	FieldStudentID      = "studentId"
	FieldStudentName    = "studentName"
	FieldStudentSurname = "studentSurname"
	FieldStudentGroup   = "studentGroup"
	FieldStudentPhoto   = "studentPhoto"
)

const defaultMaxTextBytes = 64 << 10

// Options bounds what a single student submission may buffer.
type Options struct {
	MaxPhotoBytes int64
	MaxTextBytes  int64
}

// StudentForm accumulates a student submission. Photo is nil when the submission carried none.
type StudentForm struct {
	ID      *int64
	Name    string
	Surname string
	GroupID int64
	Photo   *models.Photo
}

// StudentSchema returns the field table for student submissions.
func StudentSchema(opts Options) Schema {
	maxText := opts.MaxTextBytes
	if maxText <= 0 {
		maxText = defaultMaxTextBytes
	}
	text := Field{Kind: FieldText, MaxBytes: maxText}

	return Schema{
		FieldStudentID:      text,
		FieldStudentName:    text,
		FieldStudentSurname: text,
		FieldStudentGroup:   text,
		FieldStudentPhoto: {
			Kind:       FieldBinary,
			MaxBytes:   opts.MaxPhotoBytes,
			AcceptType: models.IsAllowedMediaType,
		},
	}
}

// ParseStudentForm streams the request body into a StudentForm.
func ParseStudentForm(r *http.Request, opts Options) (*StudentForm, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, readFailure(ErrMalformedMultipart, "", err)
	}

	form := &StudentForm{}
	if err := Walk(mr, StudentSchema(opts), form.apply); err != nil {
		return nil, err
	}
	return form, nil
}

func (f *StudentForm) apply(p Part) error {
	switch p := p.(type) {
	case TextPart:
		switch p.Name {
		case FieldStudentID:
			if id, err := strconv.ParseInt(p.Value, 10, 64); err == nil {
				f.ID = &id
			}
		case FieldStudentName:
			f.Name = p.Value
		case FieldStudentSurname:
			f.Surname = p.Value
		case FieldStudentGroup:
			f.GroupID = parseGroupID(p.Value)
		}
	case BinaryPart:
		f.Photo = &models.Photo{Data: p.Data, MediaType: p.MediaType}
	}
	return nil
}

// parseGroupID is deliberately lenient: anything that is not a 32-bit integer becomes group 0.
func parseGroupID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0
	}
	return id
}

// Student builds the record the form describes. The photo travels separately.
func (f *StudentForm) Student() *models.Student {
	s := &models.Student{
		Name:    f.Name,
		Surname: f.Surname,
		GroupID: f.GroupID,
	}
	if f.Photo != nil {
		mediaType := f.Photo.MediaType
		s.HasPhoto = true
		s.PhotoType = &mediaType
	}
	return s
}
