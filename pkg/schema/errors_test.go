package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanOneOfMessage(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantNot []string
		wantAny []string
	}{
		{
			name: "type typo removes got-string-want-object branch",
			input: "at '/node_templates/web/type': 'oneOf' failed, none matched\n" +
				"- at '/node_templates/web/type': value must be one of 'webserver', 'database'\n" +
				"- at '/node_templates/web/type': got string, want object",
			wantNot: []string{"oneOf", "got string, want object"},
			wantAny: []string{"value must be one of 'webserver', 'database'"},
		},
		{
			name:    "non-oneOf message is returned unchanged",
			input:   "value must be one of 'a', 'b', 'c'",
			wantNot: []string{"oneOf"},
			wantAny: []string{"value must be one of 'a', 'b', 'c'"},
		},
		{
			name: "message unchanged when all sub-errors are type conflicts",
			input: "at '/x': 'oneOf' failed, none matched\n" +
				"- at '/x': got string, want object\n" +
				"- at '/x': got string, want array",
			wantAny: []string{"oneOf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cleanOneOfMessage(tt.input)
			for _, unwanted := range tt.wantNot {
				assert.NotContains(t, result, unwanted)
			}
			if len(tt.wantAny) > 0 {
				found := false
				for _, wanted := range tt.wantAny {
					if strings.Contains(result, wanted) {
						found = true
						break
					}
				}
				assert.True(t, found, "expected one of %v in %q", tt.wantAny, result)
			}
		})
	}
}

func TestIsTypeConflictLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"bare got-want", "got string, want object", true},
		{"embedded at-path", "- at '/type': got string, want object", true},
		{"enum constraint is not a type conflict", "- at '/type': value must be one of 'a', 'b'", false},
		{"empty line is not a type conflict", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTypeConflictLine(tt.line))
		})
	}
}

func TestStripAtPathPrefix(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "top-level path stripped entirely",
			line: "- at '/type': value must be one of 'a', 'b'",
			want: "value must be one of 'a', 'b'",
		},
		{
			name: "nested path keeps last component",
			line: "- at '/node_templates/web': value must be one of 'a', 'b'",
			want: "'web': value must be one of 'a', 'b'",
		},
		{
			name: "line without at-path prefix is unchanged",
			line: "value must be one of 'a', 'b'",
			want: "value must be one of 'a', 'b'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripAtPathPrefix(tt.line))
		})
	}
}

func TestValidateDocumentRejectsTemplatesWithoutVersion(t *testing.T) {
	err := ValidateDocument(map[string]any{
		"node_templates": map[string]any{},
	})
	assert.Error(t, err)
}

func TestValidateDocumentAcceptsTypedNodeTemplate(t *testing.T) {
	err := ValidateDocument(map[string]any{
		"tosca_definitions_version": "cloudify_dsl_1_0",
		"node_types": map[string]any{
			"t": map[string]any{
				"properties": map[string]any{
					"p": map[string]any{"default": 1},
				},
			},
		},
		"node_templates": map[string]any{
			"n": map[string]any{"type": "t"},
		},
	})
	assert.NoError(t, err)
}

func TestValidateImportsSectionRejectsNonStringItems(t *testing.T) {
	err := ValidateImportsSection([]any{"a.yaml", 5})
	assert.Error(t, err)
}
