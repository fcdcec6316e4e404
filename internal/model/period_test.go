package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthName(t *testing.T) {
	name, err := MonthName(3)
	require.NoError(t, err)
	assert.Equal(t, "March", name)

	for _, m := range []int{0, 13, -1} {
		_, err := MonthName(m)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestPeriod(t *testing.T) {
	p := Period{Month: 12, Year: 2025}
	require.NoError(t, p.Validate())
	assert.Equal(t, "December 2025", p.Label())

	from, until := p.Range(time.UTC)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), until)

	assert.ErrorIs(t, Period{Month: 1, Year: 1999}.Validate(), ErrInvalidPeriod)
	assert.ErrorIs(t, Period{Month: 1, Year: 2101}.Validate(), ErrInvalidPeriod)
}

func TestDayRange_Location(t *testing.T) {
	nairobi := time.FixedZone("EAT", 3*60*60)
	// 22:30 UTC is already the next day in UTC+3
	from, until := DayRange(time.Date(2025, 3, 14, 22, 30, 0, 0, time.UTC), nairobi)
	assert.Equal(t, 15, from.Day())
	assert.Equal(t, 24*time.Hour, until.Sub(from))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-15", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2025-03-15T10:00:00Z", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	for _, bad := range []string{"", "15/03/2025", "2025-13-01"} {
		_, err := ParseDate(bad, time.UTC)
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
}

func TestScope(t *testing.T) {
	agentID := int64(4)
	p := &Payment{AgentID: &agentID}

	assert.True(t, AdminScope().CanSeePayment(p))
	assert.Nil(t, AdminScope().PaymentAgentFilter())

	assert.True(t, AgentScope(4).CanSeePayment(p))
	assert.False(t, AgentScope(5).CanSeePayment(p))
	assert.False(t, AgentScope(4).CanSeePayment(&Payment{}))
	assert.Equal(t, int64(4), *AgentScope(4).PaymentAgentFilter())

	assert.False(t, Scope{}.Valid())
	assert.False(t, AgentScope(0).Valid())
}
