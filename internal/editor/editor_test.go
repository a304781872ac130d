package editor

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mcncl/blocktree/internal/blocks"
	"github.com/mcncl/blocktree/internal/config"
	"github.com/mcncl/blocktree/internal/errors"
	"github.com/mcncl/blocktree/internal/logger"
	"github.com/mcncl/blocktree/internal/models"
	"github.com/mcncl/blocktree/internal/parser"
	"github.com/mcncl/blocktree/internal/view"
)

func doc(s string) models.JSONValue { return parser.MustParseString(s) }

func ptr(s string) models.Pointer { return models.MustParsePointer(s) }

const textField = `{"f":{"blocks":[{"type":"text","data":{"text":""}}]}}`
const objectRowTable = `{"f":{"blocks":[{"type":"table","data":{"columns":["A","B"],"rows":[{"x":1,"y":2}]}}]}}`
const tableField = `{"f":{"blocks":[{"type":"table","data":{"columns":["A","B"],"rows":[["",""]]}}]}}`

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		in   string
		op   Op
		want string
	}{
		{
			name: "set scalar",
			in:   `{"name":"Acme","rating":4}`,
			op:   Op{Name: OpSet, Path: ptr("/rating"), Value: "5"},
			want: `{"name":"Acme","rating":"5"}`,
		},
		{
			name: "delete field keeps order",
			in:   `{"a":1,"b":2,"c":3}`,
			op:   Op{Name: OpDeleteField, Path: models.Root, Key: "b"},
			want: `{"a":1,"c":3}`,
		},
		{
			name: "delete item reindexes",
			in:   `{"l":[1,2,3]}`,
			op:   Op{Name: OpDeleteItem, Path: ptr("/l"), Index: 1},
			want: `{"l":[1,3]}`,
		},
		{
			name: "append item",
			in:   `{"l":["a"]}`,
			op:   Op{Name: OpAppendItem, Path: ptr("/l")},
			want: `{"l":["a",""]}`,
		},
		{
			name: "add block keeps siblings",
			in:   `{"about":{"intro":"x"}}`,
			op:   Op{Name: OpAddBlock, Path: ptr("/about"), Kind: blocks.KindText},
			want: `{"about":{"intro":"x","blocks":[{"type":"text","data":{"text":""}}]}}`,
		},
		{
			name: "add block creates missing member",
			in:   `{"c":[{"name":"A"}]}`,
			op:   Op{Name: OpAddBlock, Path: ptr("/c/0/about"), Kind: blocks.KindList},
			want: `{"c":[{"name":"A","about":{"blocks":[{"type":"list","data":{"items":[""]}}]}}]}`,
		},
		{
			name: "edit block",
			in:   textField,
			op:   Op{Name: OpEditBlock, Path: ptr("/f"), Kind: blocks.KindText, Data: doc(`{"text":"hi"}`)},
			want: `{"f":{"blocks":[{"type":"text","data":{"text":"hi"}}]}}`,
		},
		{
			name: "edit text block",
			in:   `{"f":{"blocks":[{"type":"text","data":{"text":"old","align":"left"}}]}}`,
			op:   Op{Name: OpEditText, Path: ptr("/f/blocks/0"), Value: "new"},
			want: `{"f":{"blocks":[{"type":"text","data":{"text":"new","align":"left"}}]}}`,
		},
		{
			name: "remove block",
			in:   textField,
			op:   Op{Name: OpRemoveBlock, Path: ptr("/f"), Index: 0},
			want: `{"f":{"blocks":[]}}`,
		},
		{
			name: "add line to list block",
			in:   `{"f":{"blocks":[{"type":"list","data":{"items":["a"]}}]}}`,
			op:   Op{Name: OpAddLine, Path: ptr("/f/blocks/0")},
			want: `{"f":{"blocks":[{"type":"list","data":{"items":["a",""]}}]}}`,
		},
		{
			name: "edit line of array",
			in:   `{"l":["a",2]}`,
			op:   Op{Name: OpEditLine, Path: ptr("/l"), Index: 1, Value: "two"},
			want: `{"l":["a","two"]}`,
		},
		{
			name: "remove line",
			in:   `{"l":["a","b"]}`,
			op:   Op{Name: OpRemoveLine, Path: ptr("/l"), Index: 0},
			want: `{"l":["b"]}`,
		},
		{
			name: "add column squares a jagged matrix",
			in:   `{"m":[["a","b"],["c"]]}`,
			op:   Op{Name: OpAddColumn, Path: ptr("/m")},
			want: `{"m":[["a","b",""],["c","",""]]}`,
		},
		{
			name: "add row to matrix",
			in:   `{"m":[["a","b"]]}`,
			op:   Op{Name: OpAddRow, Path: ptr("/m")},
			want: `{"m":[["a","b"],["",""]]}`,
		},
		{
			name: "edit matrix cell",
			in:   `{"m":[["a","b"]]}`,
			op:   Op{Name: OpEditCell, Path: ptr("/m"), Row: 0, Col: 1, Value: "x"},
			want: `{"m":[["a","x"]]}`,
		},
		{
			name: "edit table block cell",
			in:   tableField,
			op:   Op{Name: OpEditCell, Path: ptr("/f/blocks/0"), Row: 0, Col: 1, Value: "x"},
			want: `{"f":{"blocks":[{"type":"table","data":{"columns":["A","B"],"rows":[["","x"]]}}]}}`,
		},
		{
			name: "edit table header",
			in:   tableField,
			op:   Op{Name: OpEditHeader, Path: ptr("/f/blocks/0"), Index: 0, Value: "Name"},
			want: `{"f":{"blocks":[{"type":"table","data":{"columns":["Name","B"],"rows":[["",""]]}}]}}`,
		},
		{
			name: "add record presets every column",
			in:   `{"c":[{"name":"A","about":"x"}]}`,
			op:   Op{Name: OpAddRecord, Path: ptr("/c")},
			want: `{"c":[{"name":"A","about":"x"},{"name":{"blocks":[]},"about":{"blocks":[]}}]}`,
		},
		{
			name: "remove record",
			in:   `{"c":[{"name":"A"},{"name":"B"}]}`,
			op:   Op{Name: OpRemoveRecord, Path: ptr("/c"), Index: 0},
			want: `{"c":[{"name":"B"}]}`,
		},
		{
			name: "add image",
			in:   `{"name":"Acme","gallery":["http://img1"]}`,
			op:   Op{Name: OpAddImage, Path: ptr("/gallery"), Value: " http://img2 "},
			want: `{"name":"Acme","gallery":["http://img1","http://img2"]}`,
		},
		{
			name: "remove image",
			in:   `{"gallery":["http://img1","http://img2"]}`,
			op:   Op{Name: OpRemoveImage, Path: ptr("/gallery"), Index: 0},
			want: `{"gallery":["http://img2"]}`,
		},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := doc(tt.in)
			got, err := e.Apply(in, tt.op)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.in, in.String(), "input document must not change")
		})
	}
}

func TestApply_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		op   Op
		want error
	}{
		{"set on object", `{"a":{}}`, Op{Name: OpSet, Path: ptr("/a"), Value: "x"}, errors.ErrWrongKind},
		{"missing path", `{"a":1}`, Op{Name: OpSet, Path: ptr("/nope"), Value: "x"}, errors.ErrPathNotFound},
		{"delete missing field", `{"a":1}`, Op{Name: OpDeleteField, Path: models.Root, Key: "b"}, errors.ErrPathNotFound},
		{"delete item out of range", `{"l":[1]}`, Op{Name: OpDeleteItem, Path: ptr("/l"), Index: 3}, errors.ErrIndexOutOfRange},
		{"empty image url", `{"gallery":[]}`, Op{Name: OpAddImage, Path: ptr("/gallery"), Value: "  "}, errors.ErrEmptyURL},
		{"gallery not an array", `{"gallery":{}}`, Op{Name: OpAddImage, Path: ptr("/gallery"), Value: "http://x"}, errors.ErrWrongKind},
		{"unknown op", `{}`, Op{Name: "explode", Path: models.Root}, errors.ErrUnknownOperation},
		{"unknown block kind", `{"a":{}}`, Op{Name: OpAddBlock, Path: ptr("/a"), Kind: "video"}, errors.ErrUnknownBlockKind},
		{"block kind mismatch", textField, Op{Name: OpEditBlock, Path: ptr("/f"), Kind: blocks.KindList, Data: doc(`{"items":[]}`)}, errors.ErrBlockKindMismatch},
		{"blocks on an array", `{"a":[1]}`, Op{Name: OpAddBlock, Path: ptr("/a"), Kind: blocks.KindText}, errors.ErrWrongKind},
		{"edit text of a list block", `{"f":{"blocks":[{"type":"list","data":{"items":[]}}]}}`, Op{Name: OpEditText, Path: ptr("/f/blocks/0"), Value: "x"}, errors.ErrBlockKindMismatch},
		{"remove column, object row", `{"grid":[["a","b"],{"x":1,"y":2}]}`, Op{Name: OpRemoveColumn, Path: ptr("/grid"), Index: 0}, errors.ErrWrongKind},
		{"add column, mixed rows", `{"grid":[["a"],{"keep":"me"},"text"]}`, Op{Name: OpAddColumn, Path: ptr("/grid")}, errors.ErrWrongKind},
		{"remove table column, object row", objectRowTable, Op{Name: OpRemoveColumn, Path: ptr("/f/blocks/0"), Index: 1}, errors.ErrWrongKind},
		{"add table column, object row", objectRowTable, Op{Name: OpAddColumn, Path: ptr("/f/blocks/0")}, errors.ErrWrongKind},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Apply(doc(tt.in), tt.op)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var appErr *errors.AppError
			require.True(t, stderrors.As(err, &appErr))
			assert.Equal(t, errors.ErrorTypeEdit, appErr.Type)
		})
	}
}

func TestApply_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := New(WithLogger(logger.NewFromCore(core)))

	_, err := e.Apply(doc(`{"l":[1]}`), Op{Name: OpDeleteItem, Path: ptr("/l"), Index: 0})
	require.NoError(t, err)
	_, err = e.Apply(doc(`{"l":[1]}`), Op{Name: OpDeleteItem, Path: ptr("/l"), Index: 5})
	require.Error(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "operation applied", entries[0].Message)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "delete-item", entries[0].ContextMap()["op"])
	assert.Equal(t, "/l", entries[0].ContextMap()["path"])
	assert.Equal(t, "operation rejected", entries[1].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestRoundTrip_NoEdits(t *testing.T) {
	src := `{"name":"Acme","_id":"x1","about":{"blocks":[{"type":"text","data":{"text":"Hi"}}]},"fees":[["BSc","100"],["MSc"]],"gallery":["http://img1"]}`
	calls := 0
	root := Render(doc(src), func(models.JSONValue) { calls++ })

	require.NotNil(t, root)
	assert.Equal(t, 0, calls)
	assert.Equal(t, src, doc(src).String())
}

// runControl runs the named control on the node of widget w at path and
// returns every document handed to onChange.
func runControl(t *testing.T, e *Editor, src string, w view.Widget, path, name, arg string) []models.JSONValue {
	t.Helper()
	var got []models.JSONValue
	root := e.Render(doc(src), func(v models.JSONValue) { got = append(got, v) })
	node := root.FindPath(w, path)
	require.NotNil(t, node, "no %s at %s", w, path)
	c, ok := node.Control(name)
	require.True(t, ok, "no %s control on %s at %s", name, w, path)
	require.NoError(t, c.Run(arg))
	return got
}

func TestRender_GalleryAddImage(t *testing.T) {
	got := runControl(t, New(), `{"name":"Acme","gallery":["http://img1"]}`,
		view.Gallery, "/gallery", "add-image", "http://img2")

	require.Len(t, got, 1)
	assert.Equal(t, `{"name":"Acme","gallery":["http://img1","http://img2"]}`, got[0].String())
}

func TestRender_GalleryImages(t *testing.T) {
	root := Render(doc(`{"heroImages":["http://a",{"url":"http://b"},{"src":"http://c"}]}`), nil)
	g := root.FindPath(view.Gallery, "/heroImages")
	require.NotNil(t, g)
	require.Len(t, g.Children, 3)
	assert.Equal(t, "http://a", g.Children[0].Text)
	assert.Equal(t, "http://b", g.Children[1].Text)
	assert.Equal(t, "http://c", g.Children[2].Text)
	_, ok := g.Children[1].Control("remove-image")
	assert.True(t, ok)
}

func TestRender_FailingControlDoesNotCallOnChange(t *testing.T) {
	calls := 0
	root := Render(doc(`{"gallery":[]}`), func(models.JSONValue) { calls++ })
	g := root.FindPath(view.Gallery, "/gallery")
	require.NotNil(t, g)
	c, ok := g.Control("add-image")
	require.True(t, ok)

	err := c.Run("   ")
	assert.ErrorIs(t, err, errors.ErrEmptyURL)
	assert.Equal(t, 0, calls)
}

func TestRender_Sections(t *testing.T) {
	root := Render(doc(`{"_id":"x","name":"Acme","about":"Old text","contact":{"phone":"1"}}`), nil)
	assert.Equal(t, view.Record, root.Widget)

	assert.Nil(t, root.FindPath(view.Section, "/_id"), "hidden fields are not rendered")

	name := root.FindPath(view.Section, "/name")
	require.NotNil(t, name)
	assert.Equal(t, "Name", name.Label)
	assert.True(t, name.Primary)
	_, ok := name.Control("add-text")
	assert.False(t, ok, "simple fields get no block controls")
	_, ok = name.Control("delete-field")
	assert.True(t, ok)

	about := root.FindPath(view.Section, "/about")
	require.NotNil(t, about)
	for _, kind := range blocks.Kinds {
		_, ok := about.Control("add-" + string(kind))
		assert.True(t, ok, kind)
	}

	phone := root.FindPath(view.Section, "/contact/phone")
	require.NotNil(t, phone)
	assert.False(t, phone.Primary)
}

func TestRender_SetScalar(t *testing.T) {
	got := runControl(t, New(), `{"name":"Acme"}`, view.Input, "/name", "edit", "Acme Ltd")
	require.Len(t, got, 1)
	assert.Equal(t, `{"name":"Acme Ltd"}`, got[0].String())
}

func TestRender_AddBlockToScalar(t *testing.T) {
	got := runControl(t, New(), `{"about":"Old text"}`, view.Section, "/about", "add-text", "")
	require.Len(t, got, 1)
	assert.Equal(t, `{"about":{"value":"Old text","blocks":[{"type":"text","data":{"text":""}}]}}`, got[0].String())
}

func TestRender_BlockContainer(t *testing.T) {
	src := `{"about":{"blocks":[{"type":"text","data":{"text":"Hi"}},{"type":"list","data":{"items":["a"]}},{"type":"table","data":{"columns":["A","B"],"rows":[["1","2"]]}}],"note":"n"}}`
	e := New()
	root := e.Render(doc(src), nil)

	field := root.FindPath(view.Blocks, "/about")
	require.NotNil(t, field)
	_, ok := field.Control("add-table")
	assert.True(t, ok)

	text := root.FindPath(view.Input, "/about/blocks/0/data/text")
	require.NotNil(t, text)
	assert.Equal(t, "Hi", text.Text)

	grid := root.FindPath(view.Grid, "/about/blocks/2")
	require.NotNil(t, grid)
	assert.Equal(t, []string{"A", "B"}, grid.Columns)

	assert.NotNil(t, root.FindPath(view.Section, "/about/note"), "sibling keys render as sections")

	got := runControl(t, e, src, view.Input, "/about/blocks/0/data/text", "edit", "Hello")
	require.Len(t, got, 1)
	assert.Contains(t, got[0].String(), `{"type":"text","data":{"text":"Hello"}}`)

	got = runControl(t, e, src, view.Block, "/about/blocks/1", "remove-block", "")
	require.Len(t, got, 1)
	assert.NotContains(t, got[0].String(), `"list"`)

	got = runControl(t, e, src, view.Grid, "/about/blocks/2", "add-column", "")
	require.Len(t, got, 1)
	assert.Contains(t, got[0].String(), `"columns":["A","B","Header 3"],"rows":[["1","2",""]]`)

	got = runControl(t, e, src, view.Input, "/about/blocks/2/data/columns/1", "edit", "Price")
	require.Len(t, got, 1)
	assert.Contains(t, got[0].String(), `"columns":["A","Price"]`)

	got = runControl(t, e, src, view.Input, "/about/blocks/1/data/items/0", "edit", "b")
	require.Len(t, got, 1)
	assert.Contains(t, got[0].String(), `"items":["b"]`)
}

func TestRender_TableBlockWithObjectRows(t *testing.T) {
	e := New()
	var changes []models.JSONValue
	root := e.Render(doc(objectRowTable), func(v models.JSONValue) { changes = append(changes, v) })

	grid := root.FindPath(view.Grid, "/f/blocks/0")
	require.NotNil(t, grid)
	header := grid.Find(func(n *view.Node) bool { return n.Widget == view.Input })
	require.NotNil(t, header)
	remove, ok := header.Control("remove-column")
	require.True(t, ok)

	err := remove.Run("")
	assert.ErrorIs(t, err, errors.ErrWrongKind)
	assert.Empty(t, changes)

	add, ok := grid.Control("add-column")
	require.True(t, ok)
	assert.ErrorIs(t, add.Run(""), errors.ErrWrongKind)
	assert.Empty(t, changes)
}

func TestRender_SimpleBlockFieldHasNoAddControls(t *testing.T) {
	root := Render(doc(`{"fees":{"blocks":[]}}`), nil)
	field := root.FindPath(view.Blocks, "/fees")
	require.NotNil(t, field)
	assert.Empty(t, field.Controls)
}

func TestRender_Matrix(t *testing.T) {
	src := `{"schedule":[["Mon","9"],["Tue"]]}`
	root := Render(doc(src), nil)
	grid := root.FindPath(view.Grid, "/schedule")
	require.NotNil(t, grid)
	require.Len(t, grid.Children, 2)
	require.Len(t, grid.Children[1].Children, 2, "short rows are padded for display")

	got := runControl(t, New(), src, view.Input, "/schedule/1/1", "edit", "10")
	require.Len(t, got, 1)
	assert.Equal(t, `{"schedule":[["Mon","9"],["Tue","10"]]}`, got[0].String())

	got = runControl(t, New(), src, view.Row, "/schedule/0", "remove-row", "")
	require.Len(t, got, 1)
	assert.Equal(t, `{"schedule":[["Tue"]]}`, got[0].String())

	got = runControl(t, New(), src, view.Input, "/schedule/0/0", "remove-column", "")
	require.Len(t, got, 1)
	assert.Equal(t, `{"schedule":[["9"],[""]]}`, got[0].String())
}

func TestRender_RecordTable(t *testing.T) {
	src := `{"courses":[{"_id":"1","name":"BSc","about":"x"},{"name":"MSc","fees":"100"}]}`
	e := New()
	root := e.Render(doc(src), nil)

	table := root.FindPath(view.Table, "/courses")
	require.NotNil(t, table)
	assert.Equal(t, []string{"Name", "About", "Fees"}, table.Columns)
	require.Len(t, table.Children, 2)

	name := root.FindPath(view.ReadOnly, "/courses/0/name")
	require.NotNil(t, name, "simple fields are read-only cells")
	assert.Equal(t, "BSc", name.Text)

	fees := root.FindPath(view.ReadOnly, "/courses/0/fees")
	require.NotNil(t, fees)
	assert.Equal(t, "", fees.Text)

	about := root.FindPath(view.ReadOnly, "/courses/0/about")
	require.NotNil(t, about, "scalar cells are shown, not edited in place")
	assert.Equal(t, "x", about.Text)
	_, ok := about.Control("add-list")
	assert.True(t, ok)
	_, ok = about.Control("edit")
	assert.False(t, ok)
	assert.Nil(t, root.FindPath(view.Input, "/courses/0/about"))

	got := runControl(t, e, src, view.ReadOnly, "/courses/0/about", "add-list", "")
	require.Len(t, got, 1)
	assert.Contains(t, got[0].String(),
		`"about":{"value":"x","blocks":[{"type":"list","data":{"items":[""]}}]}`)

	missing := root.FindPath(view.Blocks, "/courses/1/about")
	require.NotNil(t, missing, "missing cells offer block controls")

	got = runControl(t, e, src, view.Blocks, "/courses/1/about", "add-text", "")
	require.Len(t, got, 1)
	assert.Equal(t,
		`{"courses":[{"_id":"1","name":"BSc","about":"x"},{"name":"MSc","fees":"100","about":{"blocks":[{"type":"text","data":{"text":""}}]}}]}`,
		got[0].String())

	got = runControl(t, e, src, view.Row, "/courses/0", "remove-record", "")
	require.Len(t, got, 1)
	assert.Equal(t, `{"courses":[{"name":"MSc","fees":"100"}]}`, got[0].String())

	got = runControl(t, e, src, view.Table, "/courses", "add-record", "")
	require.Len(t, got, 1)
	assert.True(t, strings.HasSuffix(got[0].String(),
		`{"name":{"blocks":[]},"about":{"blocks":[]},"fees":{"blocks":[]}}]}`))
}

func TestRender_Stack(t *testing.T) {
	src := `{"mixed":[1,{"a":"b"},[1,2]]}`
	root := Render(doc(src), nil)
	stack := root.FindPath(view.Stack, "/mixed")
	require.NotNil(t, stack)
	require.Len(t, stack.Children, 3)
	assert.Equal(t, "#2", stack.Children[1].Label)
	assert.NotNil(t, root.FindPath(view.Lines, "/mixed/2"))

	got := runControl(t, New(), src, view.Item, "/mixed/0", "delete-item", "")
	require.Len(t, got, 1)
	assert.Equal(t, `{"mixed":[{"a":"b"},[1,2]]}`, got[0].String())

	got = runControl(t, New(), src, view.Stack, "/mixed", "append-item", "")
	require.Len(t, got, 1)
	assert.Equal(t, `{"mixed":[1,{"a":"b"},[1,2],""]}`, got[0].String())
}

func TestRender_ScalarLines(t *testing.T) {
	src := `{"tags":["a",null,3]}`
	root := Render(doc(src), nil)
	lines := root.FindPath(view.Lines, "/tags")
	require.NotNil(t, lines)
	require.Len(t, lines.Children, 3)
	assert.Equal(t, "null", lines.Children[1].Text)
	edit, ok := lines.Children[1].Control("edit")
	require.True(t, ok)
	assert.Equal(t, "", edit.Initial)

	got := runControl(t, New(), src, view.Lines, "/tags", "add-line", "")
	require.Len(t, got, 1)
	assert.Equal(t, `{"tags":["a",null,3,""]}`, got[0].String())
}

func TestRender_CustomPolicy(t *testing.T) {
	p := config.NewPolicy(config.VisibilityConfig{
		HiddenFields: []string{"secret"},
		SimpleFields: []string{"about"},
	})
	root := New(WithPolicy(p)).Render(doc(`{"secret":"s","_id":"1","about":"x"}`), nil)

	assert.Nil(t, root.FindPath(view.Section, "/secret"))
	assert.NotNil(t, root.FindPath(view.Section, "/_id"))
	about := root.FindPath(view.Section, "/about")
	require.NotNil(t, about)
	_, ok := about.Control("add-text")
	assert.False(t, ok)
}

func TestLoadScript(t *testing.T) {
	script := `
- op: add-block
  path: /about
  kind: text
- op: edit-block
  path: /about
  index: 0
  kind: text
  data: {text: Hello}
- op: delete-field
  path: ""
  key: draft
`
	ops, err := LoadScript(strings.NewReader(script))
	require.NoError(t, err)
	require.Len(t, ops, 3)
	assert.Equal(t, OpAddBlock, ops[0].Name)
	assert.Equal(t, blocks.KindText, ops[0].Kind)
	assert.Equal(t, "/about", ops[1].Path.String())
	assert.Equal(t, `{"text":"Hello"}`, ops[1].Data.String())
	assert.True(t, ops[2].Path.IsRoot())

	got, err := New().ApplyAll(doc(`{"about":"","draft":true}`), ops)
	require.NoError(t, err)
	assert.Equal(t, `{"about":{"blocks":[{"type":"text","data":{"text":"Hello"}}]}}`, got.String())
}

func TestLoadScript_JSON(t *testing.T) {
	ops, err := LoadScript(strings.NewReader(`[{"op":"add-image","path":"/gallery","value":"http://x"}]`))
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "http://x", ops[0].Value)
}

func TestLoadScript_Errors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   error
	}{
		{"missing op", `[{"path":"/a"}]`, errors.ErrUnknownOperation},
		{"bad pointer", `[{"op":"set","path":"a"}]`, errors.ErrInvalidPointer},
		{"bad kind", `[{"op":"add-block","path":"/a","kind":"video"}]`, errors.ErrUnknownBlockKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript(strings.NewReader(tt.script))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := LoadScript(strings.NewReader("op: [unclosed"))
	assert.Error(t, err)
}

func TestApplyAll_StopsAtFirstFailure(t *testing.T) {
	ops := []Op{
		{Name: OpAppendItem, Path: ptr("/l")},
		{Name: OpDeleteItem, Path: ptr("/l"), Index: 9},
	}
	_, err := New().ApplyAll(doc(`{"l":[]}`), ops)
	assert.ErrorIs(t, err, errors.ErrIndexOutOfRange)
}
