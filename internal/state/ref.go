package state

import (
	"strconv"
	"strings"

	"bookman/internal/model"
)

// RefKind tags how a user-supplied workbook reference should be
// interpreted.
type RefKind int

const (
	// AllRef is the bulk sentinel covering every workbook.
	AllRef RefKind = iota
	// IndexRef addresses a position in the id-sorted collection.
	IndexRef
	// IDRef addresses a workbook by catalog id.
	IDRef
	// NameRef addresses a workbook by display name.
	NameRef
	// URLRef addresses a workbook by storage URL.
	URLRef
	// QueryRef is an untyped string tried as id, then name, then URL.
	QueryRef
)

// String returns a human-readable kind name.
func (k RefKind) String() string {
	switch k {
	case AllRef:
		return "all"
	case IndexRef:
		return "index"
	case IDRef:
		return "id"
	case NameRef:
		return "name"
	case URLRef:
		return "url"
	case QueryRef:
		return "query"
	default:
		return "unknown"
	}
}

// Ref is a tagged workbook reference.
type Ref struct {
	Kind  RefKind
	Index int
	Value string
}

// ByIndex, ByID, ByName and ByURL build explicitly-typed references.
func ByIndex(i int) Ref      { return Ref{Kind: IndexRef, Index: i} }
func ByID(id string) Ref     { return Ref{Kind: IDRef, Value: id} }
func ByName(name string) Ref { return Ref{Kind: NameRef, Value: name} }
func ByURL(url string) Ref   { return Ref{Kind: URLRef, Value: url} }

// ParseRef classifies a raw user reference: the literal "all"
// sentinel, a numeric index, or an untyped query resolved later
// against id, name and URL in that order.
func ParseRef(raw string) Ref {
	trimmed := strings.TrimSpace(raw)
	if strings.EqualFold(trimmed, model.All) {
		return Ref{Kind: AllRef}
	}
	if i, err := strconv.Atoi(trimmed); err == nil {
		return Ref{Kind: IndexRef, Index: i}
	}
	return Ref{Kind: QueryRef, Value: trimmed}
}

// Resolution is the outcome of resolving a reference against the
// active collection. An unmatched reference is a value, not an error:
// IsAll is false and Workbook is nil.
type Resolution struct {
	IsAll    bool
	Index    int
	Workbook *model.Workbook
}

// Found reports whether the reference matched anything (including the
// bulk sentinel).
func (r Resolution) Found() bool { return r.IsAll || r.Workbook != nil }

// notFound is the canonical unmatched result.
func notFound() Resolution { return Resolution{Index: -1} }
