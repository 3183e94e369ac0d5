package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(content string) Document {
	return Document{Content: content}
}

func TestReciprocalRankFusion(t *testing.T) {
	t.Run("document in multiple lists outranks single appearances", func(t *testing.T) {
		lists := [][]Document{
			{doc("a"), doc("b"), doc("c")},
			{doc("b"), doc("d")},
		}

		got := ReciprocalRankFusion(lists, 60)
		require.Len(t, got, 4)
		// b scores 1/61 + 1/60, ahead of a at 1/60
		assert.Equal(t, "b", got[0].Content)
		assert.Equal(t, "a", got[1].Content)
	})

	t.Run("deduplicates by content", func(t *testing.T) {
		lists := [][]Document{
			{doc("a"), doc("a")},
			{doc("a")},
		}
		got := ReciprocalRankFusion(lists, 60)
		assert.Len(t, got, 1)
	})

	t.Run("first occurrence keeps its metadata", func(t *testing.T) {
		first := Document{Content: "a", Metadata: map[string]string{"source": "book.pdf"}}
		lists := [][]Document{
			{first},
			{{Content: "a", Metadata: map[string]string{"source": "other.pdf"}}},
		}
		got := ReciprocalRankFusion(lists, 60)
		require.Len(t, got, 1)
		assert.Equal(t, "book.pdf", got[0].Source())
	})

	t.Run("ties break by first appearance", func(t *testing.T) {
		lists := [][]Document{
			{doc("x"), doc("y")},
			{doc("y"), doc("x")},
		}
		// both score 1/60 + 1/61
		got := ReciprocalRankFusion(lists, 60)
		require.Len(t, got, 2)
		assert.Equal(t, "x", got[0].Content)
		assert.Equal(t, "y", got[1].Content)
	})

	t.Run("non-positive k falls back to default", func(t *testing.T) {
		lists := [][]Document{{doc("a"), doc("b")}, {doc("b")}}
		got := ReciprocalRankFusion(lists, 0)
		require.Len(t, got, 2)
		assert.Equal(t, "b", got[0].Content)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ReciprocalRankFusion(nil, 60))
		assert.Empty(t, ReciprocalRankFusion([][]Document{{}, {}}, 60))
	})
}
