package help_test

import (
	"reflect"
	"testing"

	"github.com/aledsdavies/lamp/help"
	"github.com/aledsdavies/lamp/tree"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cmd(path ...string) *tree.ExecutableCommand {
	return &tree.ExecutableCommand{ID: uuid.New(), Path: path}
}

func TestChildrenReturnsStrictDescendantsOnly(t *testing.T) {
	quest := cmd("quest")
	create := cmd("quest", "create")
	delete_ := cmd("quest", "delete")
	unrelated := cmd("greet")
	all := []*tree.ExecutableCommand{quest, create, delete_, unrelated}

	children := help.Children(all, quest)
	assert.ElementsMatch(t, []*tree.ExecutableCommand{create, delete_}, children)
}

func TestChildrenExcludesTheCommandItself(t *testing.T) {
	quest := cmd("quest")
	all := []*tree.ExecutableCommand{quest}
	assert.Empty(t, help.Children(all, quest))
}

func TestSiblingsSharesParentPathDiffersOnlyInLastSegment(t *testing.T) {
	create := cmd("quest", "create")
	delete_ := cmd("quest", "delete")
	nested := cmd("quest", "create", "now")
	all := []*tree.ExecutableCommand{create, delete_, nested}

	siblings := help.Siblings(all, create)
	assert.ElementsMatch(t, []*tree.ExecutableCommand{delete_}, siblings)
}

func TestSiblingsOfRootCommandIsEmpty(t *testing.T) {
	root := cmd()
	assert.Empty(t, help.Siblings([]*tree.ExecutableCommand{root}, root))
}

func TestRelatedUnionsChildrenAndSiblings(t *testing.T) {
	quest := cmd("quest")
	create := cmd("quest", "create")
	greet := cmd("greet")
	all := []*tree.ExecutableCommand{quest, create, greet}

	related := help.Related(all, quest)
	assert.ElementsMatch(t, []*tree.ExecutableCommand{create, greet}, related)
}

func TestPaginateClampsToBounds(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2}, help.Paginate(items, 1, 2))
	assert.Equal(t, []int{3, 4}, help.Paginate(items, 2, 2))
	assert.Equal(t, []int{5}, help.Paginate(items, 3, 2))
	assert.Nil(t, help.Paginate(items, 4, 2))
}

func TestPaginateRejectsNonPositiveArgs(t *testing.T) {
	items := []int{1, 2, 3}
	assert.Nil(t, help.Paginate(items, 0, 2))
	assert.Nil(t, help.Paginate(items, 1, 0))
}

func TestExportProducesDecodableCBORSnapshot(t *testing.T) {
	tr := tree.New()
	leaf := &tree.ExecutableCommand{
		ID:   uuid.New(),
		Path: []string{"greet"},
		Parameters: []tree.ParameterDescriptor{
			{Name: "target", Type: reflect.TypeOf("")},
		},
	}
	require.NoError(t, tr.Insert([]tree.Segment{{Literal: "greet"}}, leaf))

	data, err := help.Export(tr)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	var decoded map[string]any
	require.NoError(t, cbor.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "commands")
}

func TestParameterJSONSchemaReflectsDeclaredType(t *testing.T) {
	desc := tree.ParameterDescriptor{Name: "count", Type: reflect.TypeOf(int32(0))}
	schema, err := help.ParameterJSONSchema(desc)
	require.NoError(t, err)
	assert.Equal(t, "integer", schema["type"])
	assert.Equal(t, "count", schema["title"])
}

func TestParameterJSONSchemaNotesOptionalInDescription(t *testing.T) {
	desc := tree.ParameterDescriptor{Name: "target", Type: reflect.TypeOf(""), Optional: true}
	schema, err := help.ParameterJSONSchema(desc)
	require.NoError(t, err)
	assert.Contains(t, schema["description"].(string), "optional")
}
