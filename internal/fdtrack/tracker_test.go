package fdtrack

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_AddRemove(t *testing.T) {
	tr := New()

	assert.True(t, tr.Add(5))
	assert.True(t, tr.Add(3))
	assert.False(t, tr.Add(5), "duplicate add must be reported")

	assert.Equal(t, 2, tr.Len())
	assert.True(t, tr.Contains(3))
	assert.Equal(t, []int{3, 5}, tr.Snapshot())

	assert.True(t, tr.Remove(3))
	assert.False(t, tr.Remove(3))
	assert.False(t, tr.Contains(3))
	assert.Equal(t, []int{5}, tr.Snapshot())
}

func TestTracker_NegativeIgnored(t *testing.T) {
	tr := New()
	assert.True(t, tr.Add(-1))
	assert.Zero(t, tr.Len())
	assert.False(t, tr.Contains(-1))
}

func TestTracker_Nil(t *testing.T) {
	var tr *Tracker
	assert.True(t, tr.Add(1))
	assert.True(t, tr.Remove(1))
	assert.False(t, tr.Contains(1))
	assert.Zero(t, tr.Len())
	assert.Nil(t, tr.Snapshot())
}

func TestTracker_Concurrent(t *testing.T) {
	tr := New()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				fd := base*1000 + i
				tr.Add(fd)
				if i%2 == 0 {
					tr.Remove(fd)
				}
			}
		}(w)
	}
	wg.Wait()
	assert.Equal(t, 8*50, tr.Len())
}
