package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func TestEvaluateStatus(t *testing.T) {
	assert.Equal(t, domain.ConfigurationNotConfigured, EvaluateStatus(0, 30))
	assert.Equal(t, domain.ConfigurationPartial, EvaluateStatus(1, 30))
	assert.Equal(t, domain.ConfigurationPartial, EvaluateStatus(29, 30))
	assert.Equal(t, domain.ConfigurationConfigured, EvaluateStatus(30, 30))
	assert.Equal(t, domain.ConfigurationConfigured, EvaluateStatus(365, 30))
}

func TestLookaheadWindow(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC)

	from, to := LookaheadWindow(now, 12)

	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2027, 10, 19, 0, 0, 0, 0, time.UTC), to)
}
