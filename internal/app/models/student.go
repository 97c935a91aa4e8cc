package models

import (
	"math"
	"mime"
	"strings"
)

// Photo media types accepted on upload and trusted on read
const (
	MediaTypeJPEG = "image/jpeg"
	MediaTypePNG  = "image/png"
)

var allowedMediaTypes = map[string]bool{
	MediaTypeJPEG: true,
	MediaTypePNG:  true,
}

// Student represents a student row. Photo bytes are never part of this projection.
type Student struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Surname   string  `json:"surname"`
	GroupID   int64   `json:"group_id"`
	HasPhoto  bool    `json:"has_photo"`
	PhotoType *string `json:"photo_type,omitempty"`
}

// Photo is a student's binary photo together with its declared media type.
type Photo struct {
	Data      []byte
	MediaType string
}

// NormalizeMediaType strips parameters and lowercases a Content-Type value.
// It returns "" when the value cannot be parsed.
func NormalizeMediaType(contentType string) string {
	if strings.TrimSpace(contentType) == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mediaType
}

// IsAllowedMediaType reports whether a normalized media type is on the photo allow-list.
func IsAllowedMediaType(mediaType string) bool {
	return allowedMediaTypes[mediaType]
}

// FitsIntColumn reports whether v can be bound to the 32-bit integer id and group_id columns.
// No stored student carries a value outside that range.
func FitsIntColumn(v int64) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}
