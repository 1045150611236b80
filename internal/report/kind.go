package report

import (
	"fmt"
	"strings"

	"github.com/bizoo/KeymapTools/internal/model"
)

// Kind selects a report generator.
type Kind string

const (
	KindAll       Kind = "all"
	KindConflicts Kind = "conflicts"
	KindShadowing Kind = "shadowing"
)

// Kinds lists the generators in menu order.
func Kinds() []Kind {
	return []Kind{KindAll, KindConflicts, KindShadowing}
}

// ParseKind accepts a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindAll, KindConflicts, KindShadowing:
		return k, nil
	}
	return "", fmt.Errorf("unknown report kind %q (must be all, conflicts, or shadowing)", s)
}

// Description is a short label for menus and help text.
func (k Kind) Description() string {
	switch k {
	case KindAll:
		return "All keymaps"
	case KindConflicts:
		return "Redeclared keymaps"
	case KindShadowing:
		return "Redeclared and shadowed keymaps"
	default:
		return string(k)
	}
}

// Generate runs the generator for kind.
func Generate(kind Kind, c model.Collection) (model.GroupedReport, error) {
	switch kind {
	case KindAll:
		return AllKeymaps(c), nil
	case KindConflicts:
		return ConflictKeymaps(c), nil
	case KindShadowing:
		return ShadowingKeymaps(c), nil
	}
	return nil, fmt.Errorf("unknown report kind %q", kind)
}
