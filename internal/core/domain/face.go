package domain

import (
	"encoding/json"
	"strings"
	"unicode"
)

// UnknownName is the analysis service's placeholder for an unrecognised face.
const UnknownName = "unknown"

// FaceLocation is the bounding region of a face. It is opaque to the
// client and is sent back to the service exactly as it was received.
type FaceLocation = json.RawMessage

// DetectedFace is one face from a single analysis response.
type DetectedFace struct {
	// Index is the service-assigned index, unique within one response.
	Index int `json:"index"`

	// Location is the opaque bounding region.
	Location FaceLocation `json:"location"`

	// SuggestedName is the recognised name or the "unknown" sentinel.
	SuggestedName string `json:"name"`
}

// IsUnknownName reports whether name is the "unknown" sentinel.
// The comparison ignores case and surrounding whitespace.
func IsUnknownName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), UnknownName)
}

// DisplayName converts a suggested name into the value pre-populated in a
// face's name field. Underscores become spaces and the first letter of
// every word is upper-cased; the sentinel becomes an empty field.
//
//	DisplayName("john_doe") == "John Doe"
//	DisplayName("unknown")  == ""
func DisplayName(suggested string) string {
	if IsUnknownName(suggested) {
		return ""
	}

	runes := []rune(strings.ReplaceAll(suggested, "_", " "))
	prevWord := false
	for i, r := range runes {
		isWord := r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
		if isWord && !prevWord {
			runes[i] = unicode.ToUpper(r)
		}
		prevWord = isWord
	}
	return string(runes)
}

// FaceRegistration is the payload that records a confirmed name for a face.
type FaceRegistration struct {
	// Name is the confirmed person name.
	Name string `json:"name"`

	// Location is the face's bounding region, verbatim from the analysis.
	Location FaceLocation `json:"location"`

	// OriginalImageB64 is the analysed image, verbatim from the analysis.
	OriginalImageB64 string `json:"original_image_b64"`
}
