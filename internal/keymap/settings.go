package keymap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
)

// PreferencesFile is where the editor keeps the user's global settings,
// relative to the packages directory.
var PreferencesFile = filepath.Join("User", "Preferences.sublime-settings")

// LoadIgnoredPackages reads "ignored_packages" from the user's editor
// preferences under root. A missing preferences file is not an error.
func LoadIgnoredPackages(fsys billy.Filesystem, root string) ([]string, error) {
	path := fsys.Join(root, PreferencesFile)
	content, err := util.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading preferences: %w", err)
	}

	data := jsonc.ToJSON(content)
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parsing preferences %s: invalid JSON", path)
	}

	var names []string
	for _, v := range gjson.GetBytes(data, "ignored_packages").Array() {
		if v.Type == gjson.String {
			names = append(names, v.Str)
		}
	}
	return names, nil
}
