package async

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGatherN(t *testing.T) {
	delays := []time.Duration{30, 10, 20}
	var promises []<-chan int
	for i, d := range delays {
		promises = append(promises, Promise(func() int {
			time.Sleep(d * time.Millisecond)
			return i
		}))
	}

	startTime := time.Now()
	r := Await(GatherN(promises...))
	elapsedTime := time.Since(startTime)
	t.Logf("elapsed time: %v", elapsedTime)

	assert.Equal(t, []int{0, 1, 2}, r)
	assert.Less(t, elapsedTime, time.Second)
}

func TestGatherNEmpty(t *testing.T) {
	assert.Empty(t, Await(GatherN[int]()))
}
