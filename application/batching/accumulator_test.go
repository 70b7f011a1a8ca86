package batching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccumulator_RejectsNonPositiveCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		acc, err := NewAccumulator[int](capacity)
		assert.Error(t, err)
		assert.Nil(t, acc)
	}
}

func TestAccumulator_EmitsAtCapacity(t *testing.T) {
	acc, err := NewAccumulator[string](3)
	require.NoError(t, err)

	batch, full := acc.Add("a")
	assert.False(t, full)
	assert.Nil(t, batch)

	_, full = acc.Add("b")
	assert.False(t, full)

	batch, full = acc.Add("c")
	assert.True(t, full)
	assert.Equal(t, []string{"a", "b", "c"}, batch)
	assert.Equal(t, 0, acc.Len())
}

func TestAccumulator_BatchNotAliased(t *testing.T) {
	acc, err := NewAccumulator[int](2)
	require.NoError(t, err)

	acc.Add(1)
	first, _ := acc.Add(2)
	acc.Add(3)
	second, _ := acc.Add(4)

	assert.Equal(t, []int{1, 2}, first)
	assert.Equal(t, []int{3, 4}, second)
}

func TestAccumulator_FlushEmpty(t *testing.T) {
	acc, err := NewAccumulator[int](5)
	require.NoError(t, err)
	assert.Nil(t, acc.Flush())

	acc.Add(7)
	assert.Equal(t, []int{7}, acc.Flush())
	assert.Nil(t, acc.Flush())
}

// Feeding N items at capacity C yields floor(N/C) full batches and one
// trailing flush of N mod C, with every item appearing once in order.
func TestAccumulator_BatchCountProperty(t *testing.T) {
	for capacity := 1; capacity <= 10; capacity++ {
		for n := 0; n <= 37; n++ {
			acc, err := NewAccumulator[int](capacity)
			require.NoError(t, err)

			var full [][]int
			var seen []int
			for i := 0; i < n; i++ {
				if batch, ok := acc.Add(i); ok {
					require.Len(t, batch, capacity)
					full = append(full, batch)
					seen = append(seen, batch...)
				}
				require.LessOrEqual(t, acc.Len(), capacity)
			}
			rest := acc.Flush()
			seen = append(seen, rest...)

			assert.Equal(t, n/capacity, len(full), "capacity=%d n=%d", capacity, n)
			assert.Equal(t, n%capacity, len(rest), "capacity=%d n=%d", capacity, n)
			require.Len(t, seen, n)
			for i, v := range seen {
				assert.Equal(t, i, v)
			}
		}
	}
}

func TestChunk(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21}

	chunks := Chunk(items, 10)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 10)
	assert.Len(t, chunks[1], 10)
	assert.Equal(t, []int{21}, chunks[2])

	assert.Nil(t, Chunk([]int{}, 10))
	assert.Nil(t, Chunk(items, 0))
}
