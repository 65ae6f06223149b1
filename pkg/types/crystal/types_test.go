package crystal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSystem(t *testing.T) {
	tests := []struct {
		input string
		want  System
		ok    bool
	}{
		{"cubic", SystemCubic, true},
		{"CUBIC", SystemCubic, true},
		{"Hexagonal", SystemHexagonal, true},
		{"triclinic", SystemTriclinic, true},
		{"isometric", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseSystem(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestPointGroupSets(t *testing.T) {
	assert.True(t, SystemCubic.HasPointGroup("m3m"))
	assert.True(t, SystemCubic.HasPointGroup("-43m"))
	assert.True(t, SystemHexagonal.HasPointGroup("6/mmm"))
	assert.True(t, SystemTrigonal.HasPointGroup("-3m"))
	assert.True(t, SystemTriclinic.HasPointGroup("-1"))
	assert.False(t, SystemCubic.HasPointGroup("6/mmm"))
	assert.False(t, SystemHexagonal.HasPointGroup("m3m"))
}

func TestAllPointGroupsUnion(t *testing.T) {
	set := AllPointGroups()
	// 6 cubic + 7 hexagonal + 5 trigonal + 7 tetragonal + 3 orthorhombic +
	// 3 monoclinic + 2 triclinic, with no overlapping names.
	assert.Len(t, set, 33)
	_, ok := set["4/mmm"]
	assert.True(t, ok)
	_, ok = set["23"]
	assert.True(t, ok)
}

func TestMillerString(t *testing.T) {
	assert.Equal(t, "{100}", NewMiller(1, 0, 0).String())
	assert.Equal(t, "{-110}", NewMiller(-1, 1, 0).String())
	assert.Equal(t, "{10-10}", NewMiller4(1, 0, -1, 0).String())
	assert.Equal(t, "{0001}", NewMiller4(0, 0, 0, 1).String())
	assert.Equal(t, "{2-1-13}", NewMiller4(2, -1, -1, 3).String())
}
