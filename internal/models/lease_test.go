package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisplayStateDerivation(t *testing.T) {
	now := time.Now()
	lease := func(start, end time.Duration, active bool) *LeaseNFT {
		return &LeaseNFT{
			LeaseStartMS: now.Add(start).UnixMilli(),
			LeaseEndMS:   now.Add(end).UnixMilli(),
			Active:       active,
		}
	}

	tests := []struct {
		name  string
		lease *LeaseNFT
		want  DisplayState
	}{
		{"window not started", lease(time.Hour, 48*time.Hour, true), LeasePending},
		{"inside window and active", lease(-time.Hour, time.Hour, true), LeaseActive},
		{"inside window but deactivated", lease(-time.Hour, time.Hour, false), LeaseExpired},
		{"window over", lease(-48*time.Hour, -time.Hour, true), LeaseExpired},
		{"future window overrides inactive flag", lease(time.Hour, 48*time.Hour, false), LeasePending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.lease.DisplayStateAt(now))
		})
	}
}

func TestRoleFromPrecedence(t *testing.T) {
	assert.Equal(t, RoleAdministrator, RoleFrom(true, true))
	assert.Equal(t, RoleAdministrator, RoleFrom(true, false))
	assert.Equal(t, RoleOperator, RoleFrom(false, true))
	assert.Equal(t, RoleUser, RoleFrom(false, false))
}
