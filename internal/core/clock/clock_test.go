package clock

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystem_IDsStrictlyIncrease(t *testing.T) {
	s := NewSystem()
	prev := int64(0)
	for i := 0; i < 1000; i++ {
		n, err := strconv.ParseInt(s.NewID(), 10, 64)
		require.NoError(t, err)
		require.Greater(t, n, prev)
		prev = n
	}
}

func TestSystem_ConcurrentIDsAreDistinct(t *testing.T) {
	s := NewSystem()
	var (
		mu   sync.Mutex
		seen = map[string]bool{}
		wg   sync.WaitGroup
	)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				id := s.NewID()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 8*200)
}

func TestSequence(t *testing.T) {
	start := time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)
	s := NewSequence("p", start)

	assert.Equal(t, "p1", s.NewID())
	assert.Equal(t, "p2", s.NewID())
	assert.Equal(t, start, s.Now())
	assert.Equal(t, start.Add(time.Second), s.Now())
}
