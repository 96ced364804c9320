package storage

import "encoding/json"

// Command is the tagged-union wire record appended to a generation log.
// Exactly one of Set or Remove is populated; it marshals to the
// self-delimiting JSON object format mandated by spec §6:
//
//	{"Set":{"key":"<key>","value":"<value>"}}
//	{"Remove":{"key":"<key>"}}
//
// Records are concatenated with no separator — a streaming json.Decoder is
// what makes each record self-delimiting on replay (see load.go).
type Command struct {
	Set    *SetCommand    `json:"Set,omitempty"`
	Remove *RemoveCommand `json:"Remove,omitempty"`
}

// SetCommand asserts that Key now maps to Value.
type SetCommand struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RemoveCommand asserts that Key is no longer bound. Appending one is
// called writing a tombstone.
type RemoveCommand struct {
	Key string `json:"key"`
}

// NewSetCommand builds a Command for a Set record.
func NewSetCommand(key, value string) Command {
	return Command{Set: &SetCommand{Key: key, Value: value}}
}

// NewRemoveCommand builds a Command for a Remove (tombstone) record.
func NewRemoveCommand(key string) Command {
	return Command{Remove: &RemoveCommand{Key: key}}
}

// IsSet reports whether this command is a Set record.
func (c Command) IsSet() bool { return c.Set != nil }

// IsRemove reports whether this command is a Remove record.
func (c Command) IsRemove() bool { return c.Remove != nil }

// Key returns the key the command addresses, regardless of variant.
func (c Command) Key() string {
	if c.Set != nil {
		return c.Set.Key
	}
	if c.Remove != nil {
		return c.Remove.Key
	}
	return ""
}

// Encode serializes the command to its wire form.
func (c Command) Encode() ([]byte, error) {
	return json.Marshal(c)
}
