package service

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisitedSet_ClaimOnce(t *testing.T) {
	set := NewVisitedSet()

	assert.True(t, set.Claim("https://a.example/"))
	assert.False(t, set.Claim("https://a.example/"))
	assert.True(t, set.Claim("https://b.example/"))

	_, ok := set.Result("https://a.example/")
	assert.False(t, ok, "claimed but unrecorded URL has no result")

	set.Record("https://a.example/", 200, nil)
	res, ok := set.Result("https://a.example/")
	assert.True(t, ok)
	assert.Equal(t, ProbeResult{StatusCode: 200}, res)

	failure := errors.New("connection refused")
	set.Record("https://b.example/", 0, failure)
	res, ok = set.Result("https://b.example/")
	assert.True(t, ok)
	assert.Equal(t, failure, res.Err)

	assert.Equal(t, []string{"https://a.example/", "https://b.example/"}, set.URLs())
	assert.Equal(t, 2, set.Len())
}

func TestVisitedSet_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	set := NewVisitedSet()

	var winners atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if set.Claim("https://race.example/") {
				winners.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}
