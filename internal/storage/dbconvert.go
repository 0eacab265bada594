package storage

import (
	"encoding/json"
	"fmt"

	"translator/internal/models"
)

// marshalShortcuts converts shortcut bindings to JSON bytes.
func marshalShortcuts(shortcuts models.Shortcuts) ([]byte, error) {
	return json.Marshal(shortcuts)
}

// unmarshalShortcuts converts JSON bytes to shortcut bindings. Missing or
// invalid letters fall back to their defaults.
func unmarshalShortcuts(data []byte) (models.Shortcuts, error) {
	var shortcuts models.Shortcuts
	if len(data) > 0 {
		if err := json.Unmarshal(data, &shortcuts); err != nil {
			return models.DefaultShortcuts(), fmt.Errorf("failed to unmarshal shortcuts: %w", err)
		}
	}
	shortcuts.Normalize()
	return shortcuts, nil
}

// unmarshalShortcutsFromString converts a JSON string to shortcut bindings.
func unmarshalShortcutsFromString(data string) (models.Shortcuts, error) {
	return unmarshalShortcuts([]byte(data))
}
