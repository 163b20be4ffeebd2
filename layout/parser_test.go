package layout_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/xkbrev/layout"
)

func cursor(lines ...string) *layout.Cursor {
	return layout.NewCursorFromLines(lines)
}

func TestReadNumKeys(t *testing.T) {
	p := layout.NewParser(nil)

	n, err := p.ReadNumKeys(cursor("/* header */", "#define NUM_KEYS\t256", "rest"))
	require.NoError(t, err)
	assert.Equal(t, 256, n)

	_, err = p.ReadNumKeys(cursor("nothing", "here"))
	assert.ErrorIs(t, err, layout.ErrTruncated)
}

func TestReadKeyNames(t *testing.T) {
	p := layout.NewParser(nil)
	src := []string{
		"static XkbKeyNameRec\tkeyNames[NUM_KEYS]= {",
		`    {  ""  },    {  "ESC"  },    {  "AE01"  },`,
		`    {  "AE02"  }`,
		"};",
	}

	names, err := p.ReadKeyNames(cursor(src...), 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "ESC", "AE01", "AE02"}, names)

	_, err = p.ReadKeyNames(cursor(src...), 5)
	assert.ErrorIs(t, err, layout.ErrKeyCount)

	_, err = p.ReadKeyNames(cursor(src[:3]...), 4)
	assert.ErrorIs(t, err, layout.ErrTruncated)
}

const keyTypesHead = "static XkbKeyTypeRec dflt_types[]= {"

func TestReadActivationMaps(t *testing.T) {
	p := layout.NewParser(nil)
	c := cursor(
		"static XkbKTMapEntryRec map_TWO_LEVEL[1]= {",
		"    { 1,  1, {      ShiftMask,      ShiftMask,              0 } }",
		"};",
		"static XkbKTMapEntryRec map_KEYPAD[2]= {",
		"    { 1,  1, {      ShiftMask,      ShiftMask,              0 } },",
		"    { 0,  1, {              0,              0, vmod_NumLockMask } }",
		"};",
		"static XkbKTMapEntryRec map_BASE_SHIFTED[1]= {",
		"    { 1,  1, {              0,              0,              0 } }",
		"};",
		keyTypesHead,
	)

	acts, err := p.ReadActivationMaps(c)
	require.NoError(t, err)

	assert.Equal(t, layout.ActivationMap{0: 0}, acts[layout.OneLevel])
	assert.Equal(t, layout.ActivationMap{
		0: 0,
		layout.NewModifierSet(layout.Shift): 1,
	}, acts["TWO_LEVEL"])
	assert.Equal(t, layout.ActivationMap{
		0:                                     0,
		layout.NewModifierSet(layout.Shift):   1,
		layout.NewModifierSet(layout.NumLock): 1,
	}, acts["KEYPAD"])
	assert.Equal(t, layout.ActivationMap{0: 1}, acts["BASE_SHIFTED"], "a row may overwrite the empty set default")
	assert.Empty(t, p.Diagnostics())

	line, ok := c.Next()
	require.True(t, ok)
	assert.Equal(t, keyTypesHead, line, "key type header is handed back")
}

func TestReadActivationMapsEmptySetAlwaysPresent(t *testing.T) {
	p := layout.NewParser(nil)
	acts, err := p.ReadActivationMaps(cursor(
		"static XkbKTMapEntryRec map_SHIFT_ONLY[1]= {",
		"    { 1,  1, {      ShiftMask,      ShiftMask,              0 } }",
		"};",
		keyTypesHead,
	))
	require.NoError(t, err)
	for name, act := range acts {
		level, ok := act[0]
		assert.True(t, ok, name)
		assert.Equal(t, 0, level, name)
	}
}

// The two leading modifier columns are generated as duplicates. A mismatch
// has not been observed in xkbcomp output; it is tolerated with a diagnostic
// and the first column wins.
func TestReadActivationMapsMismatchedColumns(t *testing.T) {
	p := layout.NewParser(nil)
	acts, err := p.ReadActivationMaps(cursor(
		"static XkbKTMapEntryRec map_ODD[1]= {",
		"    { 1,  1, {      ShiftMask,       LockMask,              0 } }",
		"};",
		keyTypesHead,
	))
	require.NoError(t, err)
	assert.Equal(t, 1, acts["ODD"][layout.NewModifierSet(layout.Shift)])
	_, hasLock := acts["ODD"][layout.NewModifierSet(layout.CapsLock)]
	assert.False(t, hasLock)

	require.Len(t, p.Diagnostics(), 1)
	assert.Equal(t, layout.SectionActivations, p.Diagnostics()[0].Section)
	assert.Equal(t, 2, p.Diagnostics()[0].Line)
}

func TestReadActivationMapsErrors(t *testing.T) {
	tests := []struct {
		name string
		src  []string
		err  error
	}{
		{
			name: "unknown modifier",
			src: []string{
				"static XkbKTMapEntryRec map_X[1]= {",
				"    { 1,  1, {      Mod3Mask,      Mod3Mask,              0 } }",
				"};",
				keyTypesHead,
			},
			err: layout.ErrUnknownModifier,
		},
		{
			name: "missing end marker",
			src: []string{
				"static XkbKTMapEntryRec map_X[1]= {",
				"    { 1,  1, {      ShiftMask,      ShiftMask,              0 } }",
				"    { 1,  1, {      ShiftMask,      ShiftMask,              0 } }",
				keyTypesHead,
			},
			err: layout.ErrMalformed,
		},
		{
			name: "malformed row",
			src: []string{
				"static XkbKTMapEntryRec map_X[1]= {",
				"    garbage",
				"};",
			},
			err: layout.ErrMalformed,
		},
		{
			name: "no key type table",
			src: []string{
				"static XkbKTMapEntryRec map_X[1]= {",
				"    { 1,  1, {      ShiftMask,      ShiftMask,              0 } }",
				"};",
			},
			err: layout.ErrTruncated,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := layout.NewParser(nil).ReadActivationMaps(cursor(tc.src...))
			assert.ErrorIs(t, err, tc.err)
			var perr *layout.ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}

func TestReadKeyTypes(t *testing.T) {
	p := layout.NewParser(nil)
	types, err := p.ReadKeyTypes(cursor(
		keyTypesHead,
		"    {",
		"\t{       0,       0,       0 },",
		"\t1,",
		"\t0,\tNULL,\tNULL,",
		"\tNone,\tlnames_ONE_LEVEL",
		"    },",
		"    {",
		"\t{       ShiftMask,       ShiftMask,       0 },",
		"\t2,",
		"\t1,\tmap_TWO_LEVEL,\tNULL,",
		"\tNone,\tlnames_TWO_LEVEL",
		"    }",
		"};",
	))
	require.NoError(t, err)
	assert.Equal(t, []layout.KeyType{
		{Name: "ONE_LEVEL", Levels: 1},
		{Name: "TWO_LEVEL", Levels: 2},
	}, types)
}

func TestReadKeyTypesBraces(t *testing.T) {
	_, err := layout.NewParser(nil).ReadKeyTypes(cursor(
		keyTypesHead,
		"    [",
	))
	assert.ErrorIs(t, err, layout.ErrMalformed)

	_, err = layout.NewParser(nil).ReadKeyTypes(cursor(
		keyTypesHead,
		"    {",
		"\t{       0,       0,       0 },",
		"\t1,",
		"\t0,\tNULL,\tNULL,",
		"\tNone,\tlnames_ONE_LEVEL",
		"    )",
	))
	assert.ErrorIs(t, err, layout.ErrMalformed)
}

func TestReadSymbols(t *testing.T) {
	tokens := []string{"a", "A", "ssharp", "section", "NoSymbol", "0x1000e9f"}
	var sb strings.Builder
	for i, tok := range tokens {
		if tok != "NoSymbol" && !strings.HasPrefix(tok, "0x") {
			sb.WriteString("XK_")
		}
		sb.WriteString(tok)
		if i < len(tokens)-1 {
			sb.WriteString(",\t")
		}
	}

	syms, err := layout.NewParser(nil).ReadSymbols(cursor(
		"#define NUM_SYMBOLS\t6",
		"static KeySym\tsymCache[NUM_SYMBOLS]= {",
		"    "+sb.String(),
		"};",
	))
	require.NoError(t, err)
	assert.Equal(t, layout.SymbolTable(tokens), syms)
}

func TestReadSymbolsMultiLine(t *testing.T) {
	syms, err := layout.NewParser(nil).ReadSymbols(cursor(
		"static KeySym\tsymCache[NUM_SYMBOLS]= {",
		"    XK_Escape,\tXK_1,\tXK_exclam,\tXK_2,",
		"",
		"    XK_at",
		"};",
	))
	require.NoError(t, err)
	assert.Equal(t, layout.SymbolTable{"Escape", "1", "exclam", "2", "at"}, syms)
}

func TestReadKeyMap(t *testing.T) {
	p := layout.NewParser(nil)
	entries, err := p.ReadKeyMap(cursor(
		"static XkbSymMapRec\tsymMap[NUM_KEYS]= {",
		"    {   0, 0x0,   0 }, {   1, 0x1,   0 }, {   2, 0x1,   2 },",
		"    {   1, 0x2,   4 }",
		"};",
	), 4)
	require.NoError(t, err)
	assert.Equal(t, []layout.KeyMapEntry{
		{TypeIndex: 0, Groups: 0, Defined: false, Offset: 0},
		{TypeIndex: 1, Groups: 1, Defined: true, Offset: 0},
		{TypeIndex: 2, Groups: 1, Defined: true, Offset: 2},
		{TypeIndex: 1, Groups: 2, Defined: true, Offset: 4},
	}, entries)
	require.Len(t, p.Diagnostics(), 1)
	assert.Equal(t, layout.SectionKeyMap, p.Diagnostics()[0].Section)
}

func TestReadKeyMapStrictGroups(t *testing.T) {
	p := &layout.Parser{StrictGroups: true}
	_, err := p.ReadKeyMap(cursor(
		"static XkbSymMapRec\tsymMap[NUM_KEYS]= {",
		"    {   1, 0x2,   4 }",
		"};",
	), 1)
	assert.ErrorIs(t, err, layout.ErrMalformed)
}

func TestReadKeyMapRejectsBadRows(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		err  error
	}{
		{
			name: "group info without 0x",
			rows: []string{"    { 0, 1, 0 }, {   1, 0x1,   1 }, {   1, 0x1,   3 }"},
			err:  layout.ErrMalformed,
		},
		{
			name: "trailing garbage",
			rows: []string{"    {   0, 0x1,   0 }, {   1, 0x1,   1 }, {   1, 0x1,   3 } junk"},
			err:  layout.ErrMalformed,
		},
		{
			name: "short table",
			rows: []string{"    {   0, 0x1,   0 }, {   1, 0x1,   1 }"},
			err:  layout.ErrKeyCount,
		},
		{
			name: "long table",
			rows: []string{"    {   0, 0x1,   0 }, {   1, 0x1,   1 },", "    {   1, 0x1,   3 }, {   1, 0x1,   5 }"},
			err:  layout.ErrKeyCount,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := append([]string{"static XkbSymMapRec\tsymMap[NUM_KEYS]= {"}, tc.rows...)
			src = append(src, "};")
			_, err := layout.NewParser(nil).ReadKeyMap(cursor(src...), 3)
			assert.ErrorIs(t, err, tc.err)
			var perr *layout.ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, layout.SectionKeyMap, perr.Section)
		})
	}
}

// A malformed key map row must not shift later keys onto the wrong names.
func TestParseLayoutMalformedKeyMapRow(t *testing.T) {
	src := strings.Join([]string{
		"#define NUM_KEYS\t3",
		"static XkbKeyNameRec\tkeyNames[NUM_KEYS]= {",
		`    {  "ESC"  },    {  "AD01"  },    {  "AD02"  }`,
		"};",
		"static XkbKTMapEntryRec map_TWO_LEVEL[1]= {",
		"    { 1,  1, {      ShiftMask,      ShiftMask,              0 } }",
		"};",
		keyTypesHead,
		"    {",
		"\t{       0,       0,       0 },",
		"\t1,",
		"\t0,\tNULL,\tNULL,",
		"\tNone,\tlnames_ONE_LEVEL",
		"    },",
		"    {",
		"\t{       ShiftMask,       ShiftMask,       0 },",
		"\t2,",
		"\t1,\tmap_TWO_LEVEL,\tNULL,",
		"\tNone,\tlnames_TWO_LEVEL",
		"    }",
		"};",
		"static KeySym\tsymCache[NUM_SYMBOLS]= {",
		"    XK_Escape,\tXK_q,\tXK_Q,\tXK_w,\tXK_W",
		"};",
		"static XkbSymMapRec\tsymMap[NUM_KEYS]= {",
		"    { 0, 1, 0 }, {   1, 0x1,   1 }, {   1, 0x1,   3 }",
		"};",
	}, "\n")

	lm, err := layout.NewParser(nil).ParseLayout(strings.NewReader(src))
	assert.ErrorIs(t, err, layout.ErrMalformed)
	assert.Nil(t, lm)
}

func TestParseFixture(t *testing.T) {
	f, err := os.Open("testdata/basic.c")
	require.NoError(t, err)
	defer f.Close()

	p := layout.NewParser(nil)
	s, err := p.Parse(layout.NewCursor(f))
	require.NoError(t, err)

	assert.Equal(t, 4, s.NumKeys)
	assert.Len(t, s.KeyNames, s.NumKeys)
	assert.Equal(t, []string{"", "AD01", "AE01", "ESC"}, s.KeyNames)
	assert.Equal(t, []layout.KeyType{
		{Name: "ONE_LEVEL", Levels: 1},
		{Name: "TWO_LEVEL", Levels: 2},
		{Name: "ALPHABETIC", Levels: 2},
		{Name: "FOUR_LEVEL", Levels: 4},
	}, s.KeyTypes)
	assert.Equal(t, layout.SymbolTable{"Escape", "q", "Q", "1", "exclam", "onesuperior", "exclamdown"}, s.Symbols)
	assert.Len(t, s.KeyMap, 4)
	assert.Len(t, s.Activations, 4)
	assert.Empty(t, p.Diagnostics())
}
