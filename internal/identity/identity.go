package identity

import (
	"strconv"
	"strings"
)

// ID is the stable string form of an entity identity.
// Format: <relative file>:<starting line>:<name>
// Examples:
//   - app/orders.py:42:OrderService.place
//   - web/static/site.css:7:.button:hover
//
// The name segment is last and may itself contain colons; the file segment
// must not (relative, slash-separated paths).
type ID string

// Key builds the identity string for an entity. Identity is the triple
// (name, file, starting line), never name alone, since duplicate names
// across files are legal.
func Key(file string, line int, name string) ID {
	return ID(file + ":" + strconv.Itoa(line) + ":" + name)
}

// Parse splits an identity string back into its parts.
func Parse(id ID) (file string, line int, name string, ok bool) {
	parts := strings.SplitN(string(id), ":", 3)
	if len(parts) != 3 {
		return "", 0, "", false
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, "", false
	}
	return parts[0], n, parts[2], true
}

// File returns just the file segment, or "" for malformed IDs.
func File(id ID) string {
	f, _, _, ok := Parse(id)
	if !ok {
		return ""
	}
	return f
}

// Name returns just the name segment, or "" for malformed IDs.
func Name(id ID) string {
	_, _, n, ok := Parse(id)
	if !ok {
		return ""
	}
	return n
}
