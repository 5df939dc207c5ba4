package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Atig-Hamza/RecoleCheck/internal/docstore"
)

// ErrMalformedDocument is wrapped by every DecodeError.
var ErrMalformedDocument = errors.New("malformed document")

// DecodeError reports a stored document that cannot become a typed record.
type DecodeError struct {
	Path    string
	Missing []string
	Invalid []string
}

func (e *DecodeError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, ", "))
	}
	return fmt.Sprintf("%v at %s: %s", ErrMalformedDocument, e.Path, strings.Join(parts, "; "))
}

func (e *DecodeError) Unwrap() error {
	return ErrMalformedDocument
}

// DecodeProfile builds a UserProfile from its document.
func DecodeProfile(doc docstore.Document) (*UserProfile, error) {
	r := newFieldReader(doc)
	profile := &UserProfile{
		LastName:  r.requiredString(FieldLastName),
		FirstName: r.requiredString(FieldFirstName),
		Phone:     r.optionalString(FieldPhone),
		Email:     r.requiredString(FieldEmail),
		CreatedAt: r.requiredInt(FieldCreatedAt),
	}
	if err := r.err(); err != nil {
		return nil, err
	}
	return profile, nil
}

// DecodeParcel builds a Parcel from its document; the id comes from the path.
func DecodeParcel(doc docstore.Document) (*Parcel, error) {
	r := newFieldReader(doc)
	parcel := &Parcel{
		ID:              doc.ID,
		Name:            r.requiredString(FieldName),
		SurfaceHectares: r.requiredNumber(FieldSurfaceHectares),
		Crops:           r.optionalStrings(FieldCrops),
		HarvestPeriod:   r.optionalString(FieldHarvestPeriod),
		CreatedAt:       r.requiredInt(FieldCreatedAt),
	}
	if err := r.err(); err != nil {
		return nil, err
	}
	return parcel, nil
}

// DecodeZone builds a Zone from its document.
func DecodeZone(doc docstore.Document) (*Zone, error) {
	r := newFieldReader(doc)
	zone := &Zone{
		ID:          doc.ID,
		Name:        r.requiredString(FieldName),
		Description: r.optionalString(FieldDescription),
		CreatedAt:   r.requiredInt(FieldCreatedAt),
	}
	if err := r.err(); err != nil {
		return nil, err
	}
	return zone, nil
}

// DecodeHarvest builds a Harvest from its document.
func DecodeHarvest(doc docstore.Document) (*Harvest, error) {
	r := newFieldReader(doc)
	harvest := &Harvest{
		ID:        doc.ID,
		Date:      r.requiredInt(FieldDate),
		WeightKg:  r.requiredNumber(FieldWeightKg),
		Crop:      r.requiredString(FieldCrop),
		Notes:     r.optionalString(FieldNotes),
		CreatedAt: r.requiredInt(FieldCreatedAt),
	}
	if err := r.err(); err != nil {
		return nil, err
	}
	return harvest, nil
}

// fieldReader pulls typed values out of a document, collecting every
// missing or mistyped field instead of stopping at the first.
type fieldReader struct {
	path    string
	data    docstore.Data
	missing []string
	invalid []string
}

func newFieldReader(doc docstore.Document) *fieldReader {
	return &fieldReader{path: doc.Path.String(), data: doc.Data}
}

func (r *fieldReader) lookup(key string, required bool) (any, bool) {
	value, ok := r.data[key]
	if !ok || value == nil {
		if required {
			r.missing = append(r.missing, key)
		}
		return nil, false
	}
	return value, true
}

func (r *fieldReader) str(key string, required bool) string {
	value, ok := r.lookup(key, required)
	if !ok {
		return ""
	}
	s, ok := value.(string)
	if !ok {
		r.invalid = append(r.invalid, key)
		return ""
	}
	return s
}

func (r *fieldReader) requiredString(key string) string { return r.str(key, true) }
func (r *fieldReader) optionalString(key string) string { return r.str(key, false) }

func (r *fieldReader) requiredNumber(key string) float64 {
	value, ok := r.lookup(key, true)
	if !ok {
		return 0
	}
	n, ok := toFloat(value)
	if !ok {
		r.invalid = append(r.invalid, key)
		return 0
	}
	return n
}

func (r *fieldReader) requiredInt(key string) int64 {
	n := r.requiredNumber(key)
	if n != math.Trunc(n) {
		r.invalid = append(r.invalid, key)
		return 0
	}
	return int64(n)
}

func (r *fieldReader) optionalStrings(key string) []string {
	value, ok := r.lookup(key, false)
	if !ok {
		return []string{}
	}
	switch items := value.(type) {
	case []string:
		return append([]string{}, items...)
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				r.invalid = append(r.invalid, key)
				return []string{}
			}
			out = append(out, s)
		}
		return out
	default:
		r.invalid = append(r.invalid, key)
		return []string{}
	}
}

func (r *fieldReader) err() error {
	if len(r.missing) == 0 && len(r.invalid) == 0 {
		return nil
	}
	return &DecodeError{Path: r.path, Missing: r.missing, Invalid: r.invalid}
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
