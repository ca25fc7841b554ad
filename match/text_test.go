package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnap(t *testing.T) {
	s := "aé b" // é occupies bytes 1 and 2

	assert.Equal(t, 1, snapBack(s, 2))
	assert.Equal(t, 3, snapForward(s, 2))
	assert.Equal(t, 1, snapBack(s, 1))
	assert.Equal(t, 1, snapForward(s, 1))
	assert.Equal(t, 0, snapBack(s, -4))
	assert.Equal(t, len(s), snapForward(s, 99))
	assert.Equal(t, len(s), snapBack(s, 99))
}

func TestFlexiblePattern(t *testing.T) {
	re := flexiblePattern("a.b c")
	require.NotNil(t, re)

	assert.True(t, re.MatchString("a.b \n\t c"))
	assert.True(t, re.MatchString("a.b c"))
	assert.False(t, re.MatchString("axb c"))

	assert.Nil(t, flexiblePattern(""))
	assert.Nil(t, flexiblePattern("   "))
}

func TestRelaxedPattern(t *testing.T) {
	re := relaxedPattern("it's a well-known test")
	require.NotNil(t, re)

	assert.True(t, re.MatchString("IT’S A  well–known TEST"))
	assert.True(t, re.MatchString("it`s a well−known test"))
	assert.False(t, re.MatchString("its a well known test"))

	assert.Nil(t, relaxedPattern(""))
}

func TestFindFrom(t *testing.T) {
	find := func(s string) []int {
		re := flexiblePattern("needle")
		return re.FindStringIndex(s)
	}
	target := "needle hay needle"

	start, end, ok := findFrom(target, 0, find)
	require.True(t, ok)
	assert.Equal(t, 0, start)
	assert.Equal(t, 6, end)

	start, _, ok = findFrom(target, 1, find)
	require.True(t, ok)
	assert.Equal(t, 11, start)

	start, _, ok = findFrom(target, 12, find)
	require.True(t, ok)
	assert.Equal(t, 0, start)

	_, _, ok = findFrom("hay", 0, find)
	assert.False(t, ok)
}

func TestBuildWindows(t *testing.T) {
	target := string(make([]byte, 100))

	windows := buildWindows(target, 40, 0.5)
	assert.Equal(t, []window{{0, 40}, {20, 60}, {40, 80}, {60, 100}}, windows)

	windows = buildWindows(target, 50, 0)
	assert.Equal(t, []window{{0, 50}, {50, 100}}, windows)

	assert.Equal(t, []window{{0, 5}}, buildWindows("short", 100, 0.5))
	assert.Nil(t, buildWindows("", 10, 0.5))
}

func TestBuildWindows_RuneBoundaries(t *testing.T) {
	target := "ééééé" // 10 bytes, 2 per rune

	for _, w := range buildWindows(target, 3, 0.5) {
		assert.True(t, w.start%2 == 0, "start %d splits a rune", w.start)
		assert.True(t, w.end%2 == 0, "end %d splits a rune", w.end)
	}
}
