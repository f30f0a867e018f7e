package trace

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpanSequence(t *testing.T) {
	ctx := WithRequestAndSpan(context.Background(), "req-1", 0)
	assert.Equal(t, "0", CurrentSpanID(ctx))

	requestID, span := NextSpanID(ctx)
	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, "1", span)

	_, span = NextSpanID(ctx)
	assert.Equal(t, "2", span)
	assert.Equal(t, "2", CurrentSpanID(ctx))
}

func TestNextSpanIDConcurrent(t *testing.T) {
	ctx := WithRequestAndSpan(context.Background(), "req", 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			NextSpanID(ctx)
		}()
	}
	wg.Wait()
	assert.Equal(t, "50", CurrentSpanID(ctx))
}

func TestOutsideRequest(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", RequestIDFromContext(ctx))
	assert.Equal(t, "0", CurrentSpanID(ctx))

	requestID, span := NextSpanID(ctx)
	assert.Len(t, requestID, 32)
	assert.Equal(t, "1", span)
}

func TestEnsureRequest(t *testing.T) {
	ctx := EnsureRequest(context.Background(), "evt-1")
	assert.Equal(t, "evt-1", RequestIDFromContext(ctx))

	// 이미 있으면 덮어쓰지 않는다.
	assert.Equal(t, "evt-1", RequestIDFromContext(EnsureRequest(ctx, "evt-2")))

	assert.NotEmpty(t, RequestIDFromContext(EnsureRequest(context.Background(), "")))
}
