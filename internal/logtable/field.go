// Package logtable holds the in-memory log collection behind the console's
// log table and derives the filtered, sorted view that gets rendered.
package logtable

import "github.com/cloo-solutions/tryonadmin/internal/domain"

// Field names a LogRecord column, using the platform's JSON names.
type Field string

const (
	FieldID                Field = "id"
	FieldBusinessID        Field = "businessId"
	FieldUserID            Field = "userId"
	FieldProductID         Field = "productId"
	FieldClothType         Field = "clothType"
	FieldNumInferenceSteps Field = "numInferenceSteps"
	FieldSeed              Field = "seed"
	FieldGuidanceScale     Field = "guidanceScale"
	FieldPersonImageURL    Field = "personImageUrl"
	FieldClothImageURL     Field = "clothImageUrl"
	FieldResultImageURL    Field = "resultImageUrl"
	FieldCreatedAt         Field = "createdAt"
)

type matchKind int

const (
	matchNone matchKind = iota
	matchSubstring
	matchExactString
	matchExactInt
	matchExactFloat
	matchOnOrBefore
)

type fieldInfo struct {
	match    matchKind
	sortable bool
}

var fields = map[Field]fieldInfo{
	FieldID:                {match: matchNone},
	FieldBusinessID:        {match: matchSubstring, sortable: true},
	FieldUserID:            {match: matchSubstring, sortable: true},
	FieldProductID:         {match: matchSubstring, sortable: true},
	FieldClothType:         {match: matchExactString, sortable: true},
	FieldNumInferenceSteps: {match: matchExactInt, sortable: true},
	FieldSeed:              {match: matchExactInt, sortable: true},
	FieldGuidanceScale:     {match: matchExactFloat, sortable: true},
	FieldPersonImageURL:    {match: matchNone},
	FieldClothImageURL:     {match: matchNone},
	FieldResultImageURL:    {match: matchNone},
	FieldCreatedAt:         {match: matchOnOrBefore, sortable: true},
}

// IsKnown reports whether f names a LogRecord column.
func (f Field) IsKnown() bool {
	_, ok := fields[f]
	return ok
}

// IsFilterable reports whether a criterion can be set on f.
func (f Field) IsFilterable() bool {
	return fields[f].match != matchNone
}

// IsSortable reports whether f can appear in a SortSpec.
func (f Field) IsSortable() bool {
	return fields[f].sortable
}

// FilterableFields returns the filterable fields in column order.
func FilterableFields() []Field {
	return []Field{
		FieldBusinessID, FieldUserID, FieldProductID, FieldClothType,
		FieldNumInferenceSteps, FieldSeed, FieldGuidanceScale, FieldCreatedAt,
	}
}

func stringValue(r *domain.LogRecord, f Field) string {
	switch f {
	case FieldID:
		return r.ID
	case FieldBusinessID:
		return r.BusinessID
	case FieldUserID:
		return r.UserID
	case FieldProductID:
		return r.ProductID
	case FieldClothType:
		return r.ClothType
	case FieldPersonImageURL:
		return r.PersonImageURL
	case FieldClothImageURL:
		return r.ClothImageURL
	case FieldResultImageURL:
		return r.ResultImageURL
	}
	return ""
}

func intValue(r *domain.LogRecord, f Field) int64 {
	switch f {
	case FieldNumInferenceSteps:
		return int64(r.NumInferenceSteps)
	case FieldSeed:
		return r.Seed
	}
	return 0
}
