package wizard

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryAppendAssignsIdentity(t *testing.T) {
	h := NewHistory()
	doc := h.Append(Document{Title: "A"})
	assert.NotEmpty(t, doc.ID)
	assert.False(t, doc.CreatedAt.IsZero())

	got, ok := h.Get(doc.ID)
	require.True(t, ok)
	assert.Equal(t, "A", got.Title)

	_, ok = h.Get("missing")
	assert.False(t, ok)
}

func TestHistoryOrder(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 5; i++ {
		h.Append(Document{Title: fmt.Sprintf("doc%d", i)})
	}
	all := h.All()
	require.Len(t, all, 5)
	assert.Equal(t, "doc0", all[0].Title)
	assert.Equal(t, "doc4", all[4].Title)

	recent := h.Recent(3)
	require.Len(t, recent, 3)
	assert.Equal(t, "doc4", recent[0].Title)
	assert.Equal(t, "doc2", recent[2].Title)

	assert.Len(t, h.Recent(10), 5)
	assert.Empty(t, h.Recent(-1))
}

func TestHistoryConcurrentAppend(t *testing.T) {
	h := NewHistory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Append(Document{Title: "x"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, h.Len())
}
