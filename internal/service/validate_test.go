package service

import (
	"testing"

	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUsesJSONNames(t *testing.T) {
	err := Validate(domain.PerformanceStats{Goals: -1, RedCards: -2})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "goals must be 0 or more; red_cards must be 0 or more", verr.Error())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidateSearchAgeRange(t *testing.T) {
	require.NoError(t, Validate(domain.SearchFilters{MinAge: 16, MaxAge: 21}))

	err := Validate(domain.SearchFilters{MinAge: 22, MaxAge: 18})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "is out of range", verr.Fields["maxAge"])
}

func TestGuard(t *testing.T) {
	assert.ErrorIs(t, guard(nil, "x", "no"), domain.ErrNotLoggedIn)
	assert.NoError(t, guard(sessionAs(domain.RoleScout), "x", "no", domain.RolePlayer, domain.RoleScout))

	err := guard(sessionAs(domain.RoleAdmin), "like", "nope", domain.RolePlayer)
	assert.ErrorIs(t, err, domain.ErrRoleNotPermitted)
	assert.Equal(t, "nope", err.Error())
}
