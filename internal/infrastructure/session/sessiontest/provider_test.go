package sessiontest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
)

func TestSwitchableProvider(t *testing.T) {
	staff := entities.Principal{ID: "u-1", Role: entities.RolePharmacyStaff, PharmacyID: "ph-1"}
	provider := NewSwitchableProvider(staff)

	provider.OnSnapshot(func() { provider.Set(entities.Anonymous()) })

	assert.Equal(t, staff, provider.Snapshot(context.Background()))
	assert.Equal(t, entities.Anonymous(), provider.Snapshot(context.Background()))
	assert.Equal(t, 2, provider.Snapshots())
}
