package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrParse matches any *ParseError.
	ErrParse = errors.New("keymap parse error")

	// ErrMalformedEntry matches any *MalformedEntryError.
	ErrMalformedEntry = errors.New("malformed keybinding entry")
)

// ParseError reports a keymap file whose content is not a JSON array.
type ParseError struct {
	Path    string
	Package string
	Err     error
}

func (e *ParseError) Error() string {
	where := e.Path
	if where == "" {
		where = e.Package
	}
	if where == "" {
		return fmt.Sprintf("parsing keymap: %v", e.Err)
	}
	return fmt.Sprintf("parsing keymap %s: %v", where, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// MalformedEntryError reports an entry that was skipped because it lacks
// a usable keys or command field.
type MalformedEntryError struct {
	Path    string `json:"path,omitempty"`
	Package string `json:"package"`
	Index   int    `json:"index"`
	Reason  string `json:"reason"`
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("%s entry %d: %s", e.Package, e.Index, e.Reason)
}

func (e *MalformedEntryError) Is(target error) bool { return target == ErrMalformedEntry }

// FileFailure records a keymap file that was skipped during a scan.
type FileFailure struct {
	Path    string
	Package string
	Err     error
}

func (f FileFailure) MarshalJSON() ([]byte, error) {
	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return json.Marshal(struct {
		Path    string `json:"path"`
		Package string `json:"package"`
		Error   string `json:"error"`
	}{f.Path, f.Package, msg})
}
