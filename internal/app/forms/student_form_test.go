package forms

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/roster/internal/app/models"
	"github.com/yigit/roster/internal/pkg/apperrors"
)

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0xFF, 0xD9}

type testPart struct {
	name        string
	value       string
	file        bool
	filename    string
	contentType string
	data        []byte
}

func textField(name, value string) testPart {
	return testPart{name: name, value: value}
}

func fileField(name, filename, contentType string, data []byte) testPart {
	return testPart{name: name, file: true, filename: filename, contentType: contentType, data: data}
}

func multipartBody(t *testing.T, parts ...testPart) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, p := range parts {
		if !p.file {
			require.NoError(t, w.WriteField(p.name, p.value))
			continue
		}
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, p.name, p.filename))
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func newFormRequest(t *testing.T, parts ...testPart) *http.Request {
	t.Helper()
	body, contentType := multipartBody(t, parts...)
	req := httptest.NewRequest(http.MethodPost, "/api/students", body)
	req.Header.Set("Content-Type", contentType)
	return req
}

var defaultOpts = Options{MaxPhotoBytes: 1 << 20}

func TestParseStudentFormWithPhoto(t *testing.T) {
	req := newFormRequest(t,
		textField(FieldStudentName, "Taras"),
		textField(FieldStudentSurname, "Shevchenko"),
		textField(FieldStudentGroup, "2"),
		fileField(FieldStudentPhoto, "me.jpg", "image/jpeg", jpegBytes),
	)

	form, err := ParseStudentForm(req, defaultOpts)
	require.NoError(t, err)

	assert.Equal(t, "Taras", form.Name)
	assert.Equal(t, "Shevchenko", form.Surname)
	assert.EqualValues(t, 2, form.GroupID)
	assert.Nil(t, form.ID)
	require.NotNil(t, form.Photo)
	assert.Equal(t, models.MediaTypeJPEG, form.Photo.MediaType)
	assert.Equal(t, jpegBytes, form.Photo.Data)

	student := form.Student()
	assert.True(t, student.HasPhoto)
	require.NotNil(t, student.PhotoType)
	assert.Equal(t, models.MediaTypeJPEG, *student.PhotoType)
}

func TestParseStudentFormWithoutPhoto(t *testing.T) {
	req := newFormRequest(t,
		textField(FieldStudentID, "7"),
		textField(FieldStudentName, "Lesya"),
		textField(FieldStudentSurname, "Ukrainka"),
		textField(FieldStudentGroup, "1"),
	)

	form, err := ParseStudentForm(req, defaultOpts)
	require.NoError(t, err)

	assert.Nil(t, form.Photo)
	require.NotNil(t, form.ID)
	assert.EqualValues(t, 7, *form.ID)
	assert.False(t, form.Student().HasPhoto)
	assert.Nil(t, form.Student().PhotoType)
}

func TestParseStudentFormGroupParsingIsLenient(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{"3", 3},
		{"-4", -4},
		{"abc", 0},
		{"", 0},
		{"2.5", 0},
		{" 3", 0},
		{"99999999999", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			req := newFormRequest(t, textField(FieldStudentGroup, tt.raw))
			form, err := ParseStudentForm(req, defaultOpts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, form.GroupID)
		})
	}
}

func TestParseStudentFormDecodesTextLossily(t *testing.T) {
	req := newFormRequest(t, textField(FieldStudentName, "Ol\xffga"))

	form, err := ParseStudentForm(req, defaultOpts)
	require.NoError(t, err)
	assert.Equal(t, "Ol\uFFFDga", form.Name)
}

func TestParseStudentFormAcceptsPNGWithParameters(t *testing.T) {
	req := newFormRequest(t, fileField(FieldStudentPhoto, "me.png", "IMAGE/PNG; charset=binary", []byte("\x89PNG")))

	form, err := ParseStudentForm(req, defaultOpts)
	require.NoError(t, err)
	require.NotNil(t, form.Photo)
	assert.Equal(t, models.MediaTypePNG, form.Photo.MediaType)
}

func TestParseStudentFormRejections(t *testing.T) {
	tests := []struct {
		name    string
		parts   []testPart
		opts    Options
		cause   error
		message string
	}{
		{
			name:    "pdf photo",
			parts:   []testPart{textField(FieldStudentName, "A"), fileField(FieldStudentPhoto, "cv.pdf", "application/pdf", []byte("%PDF-1.4"))},
			cause:   ErrUnsupportedMediaType,
			message: "unsupported media type",
		},
		{
			name:    "photo without content type",
			parts:   []testPart{fileField(FieldStudentPhoto, "me.jpg", "", jpegBytes)},
			cause:   ErrUnsupportedMediaType,
			message: "unsupported media type",
		},
		{
			name:    "empty photo",
			parts:   []testPart{fileField(FieldStudentPhoto, "me.jpg", "image/jpeg", nil)},
			cause:   ErrEmptyPayload,
			message: "empty payload",
		},
		{
			name:    "unknown field",
			parts:   []testPart{textField(FieldStudentName, "A"), textField("nickname", "a")},
			cause:   ErrUnrecognizedField,
			message: "unrecognized field: nickname",
		},
		{
			name:    "unnamed file input with bytes",
			parts:   []testPart{fileField(FieldStudentPhoto, "", "application/octet-stream", []byte("x"))},
			cause:   ErrUnsupportedMediaType,
			message: "unsupported media type",
		},
		{
			name:    "photo over limit",
			parts:   []testPart{fileField(FieldStudentPhoto, "me.jpg", "image/jpeg", jpegBytes)},
			opts:    Options{MaxPhotoBytes: 4},
			cause:   ErrPayloadTooLarge,
			message: "payload too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			if opts.MaxPhotoBytes == 0 {
				opts = defaultOpts
			}
			form, err := ParseStudentForm(newFormRequest(t, tt.parts...), opts)

			require.Error(t, err)
			assert.Nil(t, form)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.ErrorIs(t, err, tt.cause)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestParseStudentFormRejectsEmptyFileInput(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		cause       error
	}{
		{"octet stream", "application/octet-stream", ErrUnsupportedMediaType},
		{"no content type", "", ErrUnsupportedMediaType},
		{"declared png", "image/png", ErrEmptyPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newFormRequest(t,
				textField(FieldStudentName, "Ivan"),
				fileField(FieldStudentPhoto, "", tt.contentType, nil),
				textField(FieldStudentGroup, "3"),
			)

			form, err := ParseStudentForm(req, defaultOpts)
			assert.Nil(t, form)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.ErrorIs(t, err, tt.cause)
		})
	}
}

func TestParseStudentFormStopsAtFirstRejection(t *testing.T) {
	var seen []string
	body, contentType := multipartBody(t,
		textField(FieldStudentName, "A"),
		textField("bogus", "x"),
		textField(FieldStudentSurname, "B"),
	)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	mr, err := req.MultipartReader()
	require.NoError(t, err)

	err = Walk(mr, StudentSchema(defaultOpts), func(p Part) error {
		seen = append(seen, p.FieldName())
		return nil
	})

	assert.ErrorIs(t, err, ErrUnrecognizedField)
	assert.Equal(t, []string{FieldStudentName}, seen)
}

func TestParseStudentFormMalformedBodies(t *testing.T) {
	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
		req.Header.Set("Content-Type", "application/json")

		_, err := ParseStudentForm(req, defaultOpts)
		assert.ErrorIs(t, err, ErrMalformedMultipart)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("truncated stream", func(t *testing.T) {
		body, contentType := multipartBody(t,
			textField(FieldStudentName, "A"),
			fileField(FieldStudentPhoto, "me.jpg", "image/jpeg", jpegBytes),
		)
		truncated := body.Bytes()[:body.Len()-20]
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(truncated))
		req.Header.Set("Content-Type", contentType)

		_, err := ParseStudentForm(req, defaultOpts)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("body over request limit", func(t *testing.T) {
		body, contentType := multipartBody(t, fileField(FieldStudentPhoto, "me.jpg", "image/jpeg", bytes.Repeat([]byte{0xAB}, 4096)))
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", contentType)
		req.Body = http.MaxBytesReader(rec, req.Body, 512)

		_, err := ParseStudentForm(req, defaultOpts)
		assert.ErrorIs(t, err, ErrPayloadTooLarge)
		assert.ErrorIs(t, err, apperrors.ErrPayloadTooLarge)
	})
}
