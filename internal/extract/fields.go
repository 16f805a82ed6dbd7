// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "encoding/json"

// FieldKind tags the shape a metadata field arrived in.
type FieldKind int

const (
	// FieldAbsent means the key was missing from the model's JSON.
	FieldAbsent FieldKind = iota
	// FieldString means the value was a JSON string.
	FieldString
	// FieldList means the value was a JSON array of strings.
	FieldList
	// FieldOther covers every other shape (number, object, null, mixed array).
	FieldOther
)

// Field is one metadata value as returned by the language model. Models are
// inconsistent about shapes — "tags" may come back as a string, an array, or
// something else entirely — so each value is decoded into this tagged
// variant and normalized explicitly instead of type-sniffed at use sites.
type Field struct {
	Kind FieldKind
	Str  string
	List []string
}

// UnmarshalJSON accepts a string, an array of strings, or records any other
// shape as FieldOther. It never fails: an unusable shape is a normalization
// concern, not a decode error.
func (f *Field) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = Field{Kind: FieldString, Str: s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = Field{Kind: FieldList, List: list}
		return nil
	}
	*f = Field{Kind: FieldOther}
	return nil
}

// Present reports whether the key appeared in the model's JSON at all.
// Present fields override candidate values on merge, matching the original
// dictionary-merge precedence.
func (f Field) Present() bool { return f.Kind != FieldAbsent }

// Tags normalizes the field into a tag list: a bare string becomes a
// single-element list, a list passes through, anything else is empty.
func (f Field) Tags() []string {
	switch f.Kind {
	case FieldString:
		return []string{f.Str}
	case FieldList:
		return f.List
	default:
		return nil
	}
}

// Joined normalizes the field into a single string: a list is joined with
// ", ", an absent or unusable value becomes "", a string passes through.
func (f Field) Joined() string {
	switch f.Kind {
	case FieldString:
		return f.Str
	case FieldList:
		out := ""
		for i, v := range f.List {
			if i > 0 {
				out += ", "
			}
			out += v
		}
		return out
	default:
		return ""
	}
}

// Metadata is the set of fields the extractor asks the model for. A zero
// Metadata means "no usable metadata".
type Metadata struct {
	Title        Field `json:"title"`
	Summary      Field `json:"summary"`
	Tags         Field `json:"tags"`
	Language     Field `json:"language"`
	Organization Field `json:"organization"`
	Country      Field `json:"country"`
}

// IsEmpty reports whether no field was present in the model's response.
func (m Metadata) IsEmpty() bool {
	return !m.Title.Present() && !m.Summary.Present() && !m.Tags.Present() &&
		!m.Language.Present() && !m.Organization.Present() && !m.Country.Present()
}
