package domain

import "time"

// Cloth types offered by the platform today. The set is open: records may
// carry any other category string.
const (
	ClothTypeTShirt = "T-Shirt"
	ClothTypeJeans  = "Jeans"
	ClothTypeDress  = "Dress"
	ClothTypeJacket = "Jacket"
)

// KnownClothTypes lists the categories offered as filter choices.
var KnownClothTypes = []string{ClothTypeTShirt, ClothTypeJeans, ClothTypeDress, ClothTypeJacket}

// LogRecord is one image-generation job reported by the platform.
// Records are immutable once received.
type LogRecord struct {
	ID                string    `json:"id"`
	BusinessID        string    `json:"businessId"`
	UserID            string    `json:"userId"`
	ProductID         string    `json:"productId"`
	ClothType         string    `json:"clothType"`
	NumInferenceSteps int       `json:"numInferenceSteps"`
	Seed              int64     `json:"seed"`
	GuidanceScale     float64   `json:"guidanceScale"`
	PersonImageURL    string    `json:"personImageUrl"`
	ClothImageURL     string    `json:"clothImageUrl"`
	ResultImageURL    string    `json:"resultImageUrl"`
	CreatedAt         time.Time `json:"createdAt"`
}

// HasTimestamp reports whether the platform supplied a creation time.
func (r LogRecord) HasTimestamp() bool {
	return !r.CreatedAt.IsZero()
}

// IsKnownClothType reports whether t is one of KnownClothTypes.
func IsKnownClothType(t string) bool {
	for _, known := range KnownClothTypes {
		if known == t {
			return true
		}
	}
	return false
}
