package parts

import (
	"context"
	"strings"
)

// NoEntry is displayed in place of an unset attribute
const NoEntry = "No Entry"

type FieldKind int

const (
	TextKind FieldKind = iota
	LabelKind
)

func (k FieldKind) String() string {
	if k == LabelKind {
		return "label"
	}
	return "text"
}

// EditableField is a displayed attribute value together with how to read and rewrite it.
// The kind is fixed when the field is built.
type EditableField struct {
	kind FieldKind
	get  func() string
	set  func(string)
}

// TextField wraps an editable text input
func TextField(get func() string, set func(string)) EditableField {
	return EditableField{kind: TextKind, get: get, set: set}
}

// LabelField wraps a read-only label whose text is replaced on commit
func LabelField(get func() string, set func(string)) EditableField {
	return EditableField{kind: LabelKind, get: get, set: set}
}

func (f EditableField) Kind() FieldKind {
	return f.kind
}

// Current returns the displayed value, or "" when the placeholder is shown
func (f EditableField) Current() string {
	v := f.get()
	if v == NoEntry {
		return ""
	}
	return v
}

// Commit trims value and rewrites the display, using the placeholder when it is blank.
// The returned pointer is what should be stored; nil means clear.
func (f EditableField) Commit(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		f.set(NoEntry)
		return nil
	}
	f.set(value)
	return &value
}

// Display returns the text to show for a stored value
func Display(value *string) string {
	if value == nil || *value == "" {
		return NoEntry
	}
	return *value
}

// CommitField commits an edit to both the display and the store
func (p *Parts) CommitField(ctx context.Context, ref Ref, field Field, display EditableField, value string) error {
	stored := display.Commit(value)
	if stored == nil {
		return p.SetField(ctx, ref, field, "")
	}
	return p.SetField(ctx, ref, field, *stored)
}
