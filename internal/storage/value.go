package storage

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ImageRefPrefix marks a string cell that holds an image reference instead of
// plain text. The prefix only exists on the wire; in memory the value kind is
// explicit.
const ImageRefPrefix = "img://"

type ValueKind int

const (
	KindNumber ValueKind = iota
	KindText
	KindImage
)

// CellValue is one cell of a form: a number, plain text or an image
// reference. The zero value is the number 0.
type CellValue struct {
	kind ValueKind
	num  float64
	text string
}

func Number(v float64) CellValue { return CellValue{kind: KindNumber, num: v} }
func Text(s string) CellValue    { return CellValue{kind: KindText, text: s} }
func ImageRef(ref string) CellValue {
	return CellValue{kind: KindImage, text: ref}
}

func (v CellValue) Kind() ValueKind { return v.kind }

// Num returns the numeric value, 0 for non-numeric cells.
func (v CellValue) Num() float64 {
	if v.kind == KindNumber {
		return v.num
	}
	return 0
}

// Text returns the text of a text cell, "" otherwise.
func (v CellValue) Text() string {
	if v.kind == KindText {
		return v.text
	}
	return ""
}

// Image returns the reference of an image cell, "" otherwise.
func (v CellValue) Image() string {
	if v.kind == KindImage {
		return v.text
	}
	return ""
}

// Export returns the flat value handed to serializers: numbers as-is, text
// as-is, image references replaced by a placeholder marker.
func (v CellValue) Export() interface{} {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindImage:
		return ImagePlaceholder
	default:
		return v.text
	}
}

// ImagePlaceholder replaces image-valued cells in flattened exports; binary
// data never enters the export.
const ImagePlaceholder = "[사진]"

func (v CellValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindImage:
		return json.Marshal(ImageRefPrefix + v.text)
	default:
		return json.Marshal(v.text)
	}
}

func (v *CellValue) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch val := raw.(type) {
	case float64:
		*v = Number(val)
	case string:
		if strings.HasPrefix(val, ImageRefPrefix) {
			*v = ImageRef(strings.TrimPrefix(val, ImageRefPrefix))
		} else {
			*v = Text(val)
		}
	case nil:
		*v = Number(0)
	case bool:
		*v = Text(fmt.Sprintf("%v", val))
	default:
		return fmt.Errorf("cell value: unsupported type %T", raw)
	}

	return nil
}
