package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnums(t *testing.T) {
	c, err := ParseCategory("natural")
	require.NoError(t, err)
	assert.Equal(t, "Natural Disaster", c.Label())

	r, err := ParseResponderType("fire-dept")
	require.NoError(t, err)
	assert.Equal(t, "Fire Department", r.Label())

	_, err = ParseCategory("alien")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = ParseSeverity("extreme")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = ParseStatus("closed")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = ParseRole("root")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestStatus_CanTransition(t *testing.T) {
	assert.True(t, StatusReported.CanTransition(StatusInProgress))
	assert.True(t, StatusReported.CanTransition(StatusRejected))
	assert.True(t, StatusInProgress.CanTransition(StatusResolved))

	assert.False(t, StatusReported.CanTransition(StatusResolved))
	assert.False(t, StatusInProgress.CanTransition(StatusRejected))
	assert.False(t, StatusResolved.CanTransition(StatusInProgress))
	assert.False(t, StatusRejected.CanTransition(StatusReported))
}

func TestIncident_VisibleOwnerAndClone(t *testing.T) {
	resolvedAt := time.Now()
	inc := &Incident{ID: "1", OwnerID: "user-1", IsAnonymous: true, ResolvedAt: &resolvedAt}
	assert.Empty(t, inc.VisibleOwnerID())

	inc.IsAnonymous = false
	assert.Equal(t, "user-1", inc.VisibleOwnerID())

	c := inc.Clone()
	*c.ResolvedAt = resolvedAt.Add(time.Hour)
	assert.Equal(t, resolvedAt, *inc.ResolvedAt)
	assert.Equal(t, "1", c.ID)
}

func TestIncidentFilter_Match(t *testing.T) {
	inc := &Incident{Status: StatusReported, Severity: SeverityHigh, ResponderType: ResponderPolice}

	assert.True(t, IncidentFilter{}.Match(inc))
	assert.True(t, IncidentFilter{Status: StatusReported, ResponderType: ResponderPolice}.Match(inc))
	assert.False(t, IncidentFilter{Severity: SeverityLow}.Match(inc))
}
