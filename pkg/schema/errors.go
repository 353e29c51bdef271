package schema

import (
	"regexp"
	"strings"
)

var atPathPattern = regexp.MustCompile(`^-?\s*at '([^']*)': (.+)$`)

// cleanJSONSchemaErrorMessage strips jsonschema/v6's "jsonschema validation
// failed with '<url>'" wrapper and simplifies oneOf jargon into plain
// constraint language.
func cleanJSONSchemaErrorMessage(errorMsg string) string {
	lines := strings.Split(errorMsg, "\n")

	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "jsonschema validation failed") {
			continue
		}
		line = strings.TrimPrefix(line, "- at '': ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	result := strings.Join(cleaned, "\n")
	if strings.TrimSpace(result) == "" {
		return "schema validation failed"
	}
	return cleanOneOfMessage(result)
}

// cleanOneOfMessage simplifies "'oneOf' failed, none matched" errors by
// dropping the wrapper line and the "got X, want Y" branches that come from
// the non-matching arm of the oneOf, keeping only the meaningful constraint.
func cleanOneOfMessage(message string) string {
	if !strings.Contains(message, "'oneOf' failed") {
		return message
	}

	lines := strings.Split(message, "\n")
	var meaningful []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.Contains(trimmed, "'oneOf' failed, none matched") {
			continue
		}
		if isTypeConflictLine(trimmed) {
			continue
		}
		meaningful = append(meaningful, trimmed)
	}

	if len(meaningful) == 0 {
		return message
	}

	var cleaned []string
	for _, line := range meaningful {
		cleaned = append(cleaned, stripAtPathPrefix(line))
	}
	return strings.Join(cleaned, "; ")
}

// isTypeConflictLine reports whether line is a "got X, want Y" branch of a
// failed oneOf, in either its bare or "at '/path':"-prefixed form.
func isTypeConflictLine(line string) bool {
	if strings.HasPrefix(line, "got ") && strings.Contains(line, ", want ") {
		return true
	}
	if idx := strings.Index(line, ": got "); idx >= 0 {
		return strings.Contains(line[idx+len(": got "):], ", want ")
	}
	return false
}

// stripAtPathPrefix removes a leading "- at '/path': " marker, keeping the
// last path component for nested fields so the message still names which
// sub-field failed.
func stripAtPathPrefix(line string) string {
	match := atPathPattern.FindStringSubmatch(line)
	if match == nil {
		return line
	}
	path := match[1]
	msg := match[2]

	if idx := strings.LastIndex(path, "/"); idx > 0 {
		return "'" + path[idx+1:] + "': " + msg
	}
	return msg
}
