package errdef

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatErrorWithoutPath(t *testing.T) {
	e := NewFormatError(-1, "illegal YAML: %s", "bad indent")
	assert.Equal(t, "illegal YAML: bad indent", e.Error())
}

func TestFormatErrorWithPath(t *testing.T) {
	e := &FormatError{Code: 1, Message: "must be a string", Path: "node_templates.app.type"}
	assert.Equal(t, "must be a string; Path to error: node_templates.app.type", e.Error())
}

func TestNewLogicErrorFormatsMessage(t *testing.T) {
	e := NewLogicError(4, "conflicting key %s", "app_type")
	assert.Equal(t, 4, e.Code)
	assert.Equal(t, "conflicting key app_type", e.Error())
}

func TestLogicErrorWithBuildersChain(t *testing.T) {
	e := NewLogicError(21, "ambiguous relationship").
		WithSourceTarget("web", "db").
		WithRelationshipTypes([]string{"a", "b"}).
		WithNodeRef("web").
		WithImplementation("impl1").
		WithImplementations([]string{"impl1", "impl2"}).
		WithFailedImport("https://example.com/x.yaml")

	assert.Equal(t, "web", e.SourceNodeRef)
	assert.Equal(t, "db", e.TargetNodeRef)
	assert.Equal(t, []string{"a", "b"}, e.RelationshipTypes)
	assert.Equal(t, "web", e.NodeRef)
	assert.Equal(t, "impl1", e.Implementation)
	assert.Equal(t, []string{"impl1", "impl2"}, e.Implementations)
	assert.Equal(t, "https://example.com/x.yaml", e.FailedImport)
}
