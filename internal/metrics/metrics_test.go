// ABOUTME: Tests for collector registration.
// ABOUTME: Registration must be idempotent and collectors usable afterwards.
package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})

	before := testutil.ToFloat64(CorruptEntriesTotal)
	CorruptEntriesTotal.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(CorruptEntriesTotal))

	IndexWritesTotal.WithLabelValues("indexed").Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(IndexWritesTotal.WithLabelValues("indexed")), 1.0)
}
