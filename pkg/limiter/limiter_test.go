package limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPLimiterBucketPerKey(t *testing.T) {
	l := NewIPLimiter(BucketRule{Capacity: 3, Window: time.Hour})

	b, ok := l.GetBucket("10.0.0.1")
	require.True(t, ok)
	assert.EqualValues(t, 3, b.TakeAvailable(5))
	assert.EqualValues(t, 0, b.TakeAvailable(1))

	// 其它 IP 不受影响
	other, _ := l.GetBucket("10.0.0.2")
	assert.EqualValues(t, 1, other.TakeAvailable(1))

	same, _ := l.GetBucket("10.0.0.1")
	assert.Same(t, b, same)
}

func TestIPLimiterSweep(t *testing.T) {
	now := time.Now()
	l := NewIPLimiter(BucketRule{Capacity: 1, Window: time.Minute})
	l.now = func() time.Time { return now }

	l.GetBucket("a")
	l.GetBucket("b")
	assert.Equal(t, 2, l.Len())

	now = now.Add(2 * time.Minute)
	l.GetBucket("c")
	assert.Equal(t, 1, l.Len())
}

func TestIPLimiterDisabled(t *testing.T) {
	l := NewIPLimiter(BucketRule{})
	_, ok := l.GetBucket("a")
	assert.False(t, ok)
}

func TestFillInterval(t *testing.T) {
	r := BucketRule{Capacity: 100, Window: 15 * time.Minute}
	assert.Equal(t, 9*time.Second, r.FillInterval())
}
