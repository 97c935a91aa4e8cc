// Package forms turns streamed multipart submissions into validated records.
//
// A submission is walked part by part. Each part is classified by its field
// name against a Schema into a TextPart or a BinaryPart and handed to a fold
// function; the first invalid part stops the walk. Nothing is written anywhere
// while a form is being read.
package forms

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/yigit/roster/internal/app/models"
	"github.com/yigit/roster/internal/pkg/apperrors"
)

// Rejection causes. Every rejection also matches apperrors.ErrValidationFailed.
var (
	ErrMalformedMultipart   = errors.New("malformed multipart body")
	ErrUnreadablePart       = errors.New("unreadable part")
	ErrUnrecognizedField    = errors.New("unrecognized field")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrEmptyPayload         = errors.New("empty payload")
	ErrPayloadTooLarge      = apperrors.ErrPayloadTooLarge
)

// FieldKind classifies a form field.
type FieldKind int

const (
	FieldText FieldKind = iota + 1
	FieldBinary
)

// Field describes a recognized form field.
type Field struct {
	Kind FieldKind
	// MaxBytes caps the field body; zero means no cap.
	MaxBytes int64
	// AcceptType decides on a binary part's media type before any of its bytes are read.
	AcceptType func(mediaType string) bool
}

// Schema maps field names to their descriptions. Names outside the schema are rejected.
type Schema map[string]Field

// Part is one classified field of a submission: a TextPart or a BinaryPart.
type Part interface {
	FieldName() string
	isPart()
}

// TextPart is a text field decoded as UTF-8, invalid sequences replaced.
type TextPart struct {
	Name  string
	Value string
}

// BinaryPart is a binary field with its normalized media type.
type BinaryPart struct {
	Name      string
	MediaType string
	Data      []byte
}

func (p TextPart) FieldName() string   { return p.Name }
func (p BinaryPart) FieldName() string { return p.Name }
func (TextPart) isPart()               {}
func (BinaryPart) isPart()             {}

// Walk reads parts in order, classifies each against schema and passes it to fn.
// It stops at the first rejected part or the first error returned by fn.
func Walk(mr *multipart.Reader, schema Schema, fn func(Part) error) error {
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return readFailure(ErrMalformedMultipart, "", err)
		}

		part, err := schema.read(p)
		_ = p.Close()
		if err != nil {
			return err
		}
		if err := fn(part); err != nil {
			return err
		}
	}
}

func (s Schema) read(p *multipart.Part) (Part, error) {
	name := p.FormName()
	field, ok := s[name]
	if !ok {
		return nil, reject(ErrUnrecognizedField, "unrecognized field: "+name, name)
	}

	switch field.Kind {
	case FieldText:
		data, err := readLimited(p, field.MaxBytes, name)
		if err != nil {
			return nil, err
		}
		return TextPart{Name: name, Value: strings.ToValidUTF8(string(data), "\uFFFD")}, nil

	case FieldBinary:
		mediaType := models.NormalizeMediaType(p.Header.Get("Content-Type"))
		if field.AcceptType == nil || !field.AcceptType(mediaType) {
			return nil, reject(ErrUnsupportedMediaType, "unsupported media type", name)
		}

		data, err := readLimited(p, field.MaxBytes, name)
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			return nil, reject(ErrEmptyPayload, "empty payload", name)
		}
		return BinaryPart{Name: name, MediaType: mediaType, Data: data}, nil
	}

	return nil, reject(ErrUnrecognizedField, "unrecognized field: "+name, name)
}

func readLimited(r io.Reader, limit int64, name string) ([]byte, error) {
	if limit <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, readFailure(ErrUnreadablePart, name, err)
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, readFailure(ErrUnreadablePart, name, err)
	}
	if int64(len(data)) > limit {
		return nil, reject(ErrPayloadTooLarge, "payload too large", name)
	}
	return data, nil
}

func reject(cause error, message, field string) error {
	ce := apperrors.NewValidationError(cause, message)
	if field != "" {
		ce = ce.WithDetails(map[string]interface{}{"field": field})
	}
	return ce
}

// readFailure covers broken framing and transport errors; both are reported to the client as 400.
func readFailure(cause error, field string, err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return reject(ErrPayloadTooLarge, "payload too large", field)
	}

	message := cause.Error()
	if field != "" {
		message += ": " + field
	}
	ce := apperrors.NewValidationError(cause, message)
	details := map[string]interface{}{"reason": err.Error()}
	if field != "" {
		details["field"] = field
	}
	return ce.WithDetails(details)
}
