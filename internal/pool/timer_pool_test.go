package pool

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerPool(t *testing.T) {
	t.Run("Get and Put", func(t *testing.T) {
		timer1 := GetTimer(time.Second)
		assert.NotNil(t, timer1)
		PutTimer(timer1)

		timer2 := GetTimer(20 * time.Millisecond)
		assert.NotNil(t, timer2)

		select {
		case <-timer2.C:
		case <-time.After(time.Second):
			t.Error("reused timer should fire after the new duration")
		}
		PutTimer(timer2)
	})

	t.Run("Stale tick is drained", func(t *testing.T) {
		timer1 := GetTimer(time.Millisecond)
		time.Sleep(20 * time.Millisecond) // let it fire without reading
		PutTimer(timer1)

		begin := time.Now()
		timer2 := GetTimer(100 * time.Millisecond)
		defer PutTimer(timer2)

		tt := <-timer2.C
		assert.GreaterOrEqual(t, tt.Sub(begin), 90*time.Millisecond)
	})

	t.Run("Deadline in the past", func(t *testing.T) {
		timer := GetDeadlineTimer(time.Now().Add(-time.Second))
		defer PutTimer(timer)

		select {
		case <-timer.C:
		case <-time.After(time.Second):
			t.Error("expired deadline should fire immediately")
		}
	})

	t.Run("Concurrency", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				timer := GetTimer(5 * time.Millisecond)
				defer PutTimer(timer)
				<-timer.C
			}()
		}
		wg.Wait()
	})
}
