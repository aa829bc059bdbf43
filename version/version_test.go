package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrdering(t *testing.T) {
	v110, v115, v120 := Pair{11, 0}, Pair{11, 5}, Pair{12, 0}
	require.True(t, v110.Less(v115))
	require.True(t, v115.Less(v120))
	require.True(t, v110.Less(v120))
	require.False(t, v120.Less(v115))
	require.False(t, v115.Less(v115))
	require.Equal(t, 0, v115.Compare(Pair{11, 5}))
	require.Equal(t, 1, v120.Compare(v110))
	require.Equal(t, -1, Pair{11, 8}.Compare(Pair{12, 0}))
}

func TestParse(t *testing.T) {
	p, err := Parse("12.4")
	require.NoError(t, err)
	require.Equal(t, Pair{12, 4}, p)
	require.Equal(t, "12.4", p.String())

	p, err = Parse(" 11.8.89 ")
	require.NoError(t, err)
	require.Equal(t, Pair{11, 8}, p)

	for _, bad := range []string{"", "12", "a.b", "12.x", "-1.2", "1.2.3.4", "12.4.garbage", "12.4.", "12.4.-1"} {
		_, err = Parse(bad)
		require.Errorf(t, err, "Parse(%q) should have failed", bad)
	}
}

func TestFromCUDAInt(t *testing.T) {
	require.Equal(t, Pair{12, 4}, FromCUDAInt(12040))
	require.Equal(t, Pair{11, 0}, FromCUDAInt(11000))
	require.Equal(t, Pair{11, 8}, FromCUDAInt(11080))
	require.True(t, FromCUDAInt(0).IsZero())
}
