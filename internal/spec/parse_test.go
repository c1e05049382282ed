package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Basic(t *testing.T) {
	doc := Parse("# Plan\n\n- [x] Set up CI\n- [ ] Add parser\nnot a task\n- [ ] Add writer\n")
	require.Len(t, doc.Tasks, 3)

	assert.Equal(t, 1, doc.Tasks[0].Index)
	assert.Equal(t, "Set up CI", doc.Tasks[0].Description)
	assert.True(t, doc.Tasks[0].Completed)

	assert.Equal(t, 2, doc.Tasks[1].Index)
	assert.Equal(t, "Add parser", doc.Tasks[1].Description)
	assert.False(t, doc.Tasks[1].Completed)

	// Non-checklist lines do not increment the index.
	assert.Equal(t, 3, doc.Tasks[2].Index)
}

func TestParse_UppercaseCheckbox(t *testing.T) {
	doc := Parse("- [X] Done task\n")
	require.Len(t, doc.Tasks, 1)
	assert.True(t, doc.Tasks[0].Completed)
}

func TestParse_IndentedTasks(t *testing.T) {
	doc := Parse("  - [ ] Indented\n")
	require.Len(t, doc.Tasks, 1)
	assert.Equal(t, "Indented", doc.Tasks[0].Description)
}

func TestParse_Counts(t *testing.T) {
	doc := Parse("- [x] A\n- [ ] B\n- [ ] C\n")
	assert.Equal(t, 3, doc.Total())
	assert.Equal(t, 1, doc.Completed())
	assert.Equal(t, 2, doc.Pending())
}

func TestParse_AllComplete(t *testing.T) {
	doc := Parse("- [x] A\n- [x] B\n")
	assert.Equal(t, 0, doc.Pending())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("- [ ] One task\n"))

	err := Validate("# Just a heading\n\nprose only\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no checklist items found")
}

func TestHashDescription_Stability(t *testing.T) {
	// Whitespace-normalized equivalents hash identically.
	base := HashDescription("Add the parser module")
	assert.Equal(t, base, HashDescription("  Add the parser module  "))
	assert.Equal(t, base, HashDescription("Add  the\tparser   module"))

	// Text changes change the hash.
	assert.NotEqual(t, base, HashDescription("Add the parser modules"))
	assert.Len(t, base, 8)
}

func TestHashDescription_StableAcrossReordering(t *testing.T) {
	a := Parse("- [ ] First\n- [ ] Second\n")
	b := Parse("- [ ] Second\n- [ ] First\n")
	assert.Equal(t, a.Tasks[0].Hash, b.Tasks[1].Hash)
	assert.Equal(t, a.Tasks[1].Hash, b.Tasks[0].Hash)
	// Index-based identity is NOT stable under reordering.
	assert.NotEqual(t, a.Tasks[0].Index, b.Tasks[1].Index)
}

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		in   string
		want Identity
		ok   bool
	}{
		{"7", IndexIdentity(7), true},
		{"123", IndexIdentity(123), true},
		{"a1b2c3d4", HashIdentity("a1b2c3d4"), true},
		{"deadbeef", HashIdentity("deadbeef"), true},
		{"0", Identity{}, false},
		{"-3", Identity{}, false},
		{"xyz", Identity{}, false},
		{"a1b2c3", Identity{}, false},           // hex but not 8 chars
		{"A1B2C3D4", Identity{}, false},         // uppercase hex is not a hash
		{"12345678", HashIdentity("12345678"), true}, // 8 hex chars wins over decimal
	}
	for _, tt := range tests {
		id, ok := ParseIdentity(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, id, "input %q", tt.in)
		}
	}
}

func TestIdentityString(t *testing.T) {
	assert.Equal(t, "42", IndexIdentity(42).String())
	assert.Equal(t, "a1b2c3d4", HashIdentity("a1b2c3d4").String())
}

func TestParseScheme(t *testing.T) {
	s, err := ParseScheme("")
	require.NoError(t, err)
	assert.Equal(t, SchemeHash, s)

	s, err = ParseScheme("index")
	require.NoError(t, err)
	assert.Equal(t, SchemeIndex, s)

	_, err = ParseScheme("bogus")
	assert.Error(t, err)
}

func TestFindByIdentity(t *testing.T) {
	doc := Parse("- [x] A\n- [ ] B\n")

	task, ok := doc.FindByIdentity(SchemeIndex, IndexIdentity(2))
	require.True(t, ok)
	assert.Equal(t, "B", task.Description)

	task, ok = doc.FindByIdentity(SchemeHash, HashIdentity(HashDescription("A")))
	require.True(t, ok)
	assert.Equal(t, "A", task.Description)

	_, ok = doc.FindByIdentity(SchemeHash, HashIdentity("00000000"))
	assert.False(t, ok)
}
