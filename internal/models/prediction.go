package models

import "time"

// Prediction is one classified upload. ObjectKey points at the stored image
// artifact; RawLabel is the classifier output before display normalization.
type Prediction struct {
	ID        string
	UserID    string
	ObjectKey string
	RawLabel  string
	SizeBytes int64
	CreatedAt time.Time
}
