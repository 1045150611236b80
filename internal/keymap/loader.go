package keymap

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"

	"github.com/bizoo/KeymapTools/internal/model"
)

// LoadFileBatch parses the content of one keymap file.
//
// Comments and trailing commas are accepted. The content must be a JSON
// array; anything else yields a *model.ParseError. Array elements that are
// not objects, or that lack a usable "keys" or "command" field, are skipped
// and reported in Batch.Malformed while the rest of the file is kept.
func LoadFileBatch(content []byte, pkg string) (model.Batch, error) {
	data := jsonc.ToJSON(content)
	if !gjson.ValidBytes(data) {
		return model.Batch{}, &model.ParseError{Package: pkg, Err: errors.New("invalid JSON")}
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return model.Batch{}, &model.ParseError{Package: pkg, Err: errors.New("top level value is not an array")}
	}

	batch := model.Batch{Package: pkg}
	idx := 0
	root.ForEach(func(_, value gjson.Result) bool {
		entry, err := parseEntry(value)
		if err != nil {
			batch.Malformed = append(batch.Malformed, model.MalformedEntryError{
				Package: pkg,
				Index:   idx,
				Reason:  err.Error(),
			})
		} else {
			batch.Entries = append(batch.Entries, entry)
		}
		idx++
		return true
	})

	return batch, nil
}

// parseEntry validates one array element at the parse boundary so nothing
// downstream has to deal with missing fields.
func parseEntry(v gjson.Result) (model.RawEntry, error) {
	var entry model.RawEntry

	if !v.IsObject() {
		return entry, errors.New("entry is not an object")
	}

	keys := v.Get("keys")
	switch {
	case !keys.Exists():
		return entry, errors.New("missing keys")
	case !keys.IsArray():
		return entry, errors.New("keys is not an array")
	}
	for i, k := range keys.Array() {
		if k.Type != gjson.String {
			return entry, fmt.Errorf("keys[%d] is not a string", i)
		}
		entry.Keys = append(entry.Keys, k.Str)
	}
	if len(entry.Keys) == 0 {
		return entry, errors.New("keys is empty")
	}

	command := v.Get("command")
	switch {
	case !command.Exists():
		return entry, errors.New("missing command")
	case command.Type != gjson.String:
		return entry, errors.New("command is not a string")
	}
	entry.Command = command.Str

	if args := v.Get("args"); args.Exists() {
		entry.Args = json.RawMessage(args.Raw)
	}

	if ctx := v.Get("context"); ctx.Exists() {
		if !ctx.IsArray() {
			return entry, errors.New("context is not an array")
		}
		entry.HasContext = true
		entry.Context = make([]json.RawMessage, 0)
		for _, c := range ctx.Array() {
			entry.Context = append(entry.Context, json.RawMessage(c.Raw))
		}
	}

	return entry, nil
}
