package trace

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNextSpanIDIncrementsWithinRequest(t *testing.T) {
	ctx := WithRequestAndSpan(context.Background(), "req-1", 0)

	assert.Equal(t, "0", CurrentSpanID(ctx))
	reqID, span := NextSpanID(ctx)
	assert.Equal(t, "req-1", reqID)
	assert.Equal(t, "1", span)
	_, span = NextSpanID(ctx)
	assert.Equal(t, "2", span)
	assert.Equal(t, "2", CurrentSpanID(ctx))
}

func TestNextSpanIDWithoutTrace(t *testing.T) {
	reqID, span := NextSpanID(context.Background())

	_, err := uuid.Parse(reqID)
	assert.NoError(t, err)
	assert.Equal(t, "1", span)
	assert.Empty(t, RequestIDFromContext(context.Background()))
}
