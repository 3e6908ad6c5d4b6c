// Package classifier wraps the external feature-extractor + nearest-neighbor
// pipeline behind a single Classify call. The model itself (EfficientNet
// features into a trained KNN) runs out of process; this package only owns
// the contract and the display-label normalization.
package classifier

import (
	"context"
	"errors"
	"unicode"
	"unicode/utf8"
)

var ErrInference = errors.New("inference failed")

type Classifier interface {
	// Classify returns the raw model label for the image bytes. Any failure
	// of the underlying pipeline surfaces as an error wrapping ErrInference.
	Classify(ctx context.Context, image []byte) (string, error)
}

// The model emits this sentinel for images that are not coffee beans at all.
const rawLabelNonCoffee = "non_coffee"

const displayLabelNonCoffee = "Bukan Biji Kopi"

// DisplayLabel normalizes a raw classifier label to its human-facing form:
// the non-coffee sentinel maps to a fixed phrase, everything else is
// capitalized. Pure function of the raw label, independent of model version.
func DisplayLabel(raw string) string {
	if raw == rawLabelNonCoffee {
		return displayLabelNonCoffee
	}
	r, size := utf8.DecodeRuneInString(raw)
	if r == utf8.RuneError {
		return raw
	}
	return string(unicode.ToUpper(r)) + raw[size:]
}
