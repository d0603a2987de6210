package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, RoleAtLeast(RoleAdmin, RoleEditor))
	assert.True(t, RoleAtLeast(RoleEditor, RoleEditor))
	assert.False(t, RoleAtLeast(RoleViewer, RoleEditor))
	assert.False(t, RoleAtLeast("owner", RoleViewer))
	assert.False(t, RoleAtLeast(RoleAdmin, "root"))
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	b := DefaultBranding(uuid.New(), "Acme")
	b.Services = []BrandingService{{Name: "Design", Description: "Logos", Price: 99}}
	b.Images = []BrandingImage{{URL: "https://cdn.example.com/a.png", Alt: "hero"}}

	snap := b.Snapshot()
	b.CompanyName = "Changed"
	b.Services[0].Name = "Changed"
	b.Images[0].URL = "https://cdn.example.com/b.png"

	assert.Equal(t, "Acme", snap.CompanyName)
	assert.Equal(t, []ServiceSnapshot{{Name: "Design", Description: "Logos", Price: 99}}, snap.Services)
	assert.Equal(t, []string{"https://cdn.example.com/a.png"}, snap.Images)
}

func TestDefaultBranding(t *testing.T) {
	b := DefaultBranding(uuid.New(), "")
	assert.Equal(t, DefaultCompanyName, b.CompanyName)
	assert.Equal(t, DefaultPrimaryColor, b.PrimaryColor)
	assert.Equal(t, DefaultFontBody, b.FontBody)

	snap := b.Snapshot()
	assert.NotNil(t, snap.Services)
	assert.NotNil(t, snap.Images)
}

func TestVersionSnapshotJSON(t *testing.T) {
	v := Version{
		VersionNumber:    3,
		BrandingSnapshot: datatypes.NewJSONType(BrandingSnapshot{CompanyName: "Acme", Images: []string{}}),
	}
	raw, err := json.Marshal(v)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	snap := out["branding_snapshot"].(map[string]any)
	assert.Equal(t, "Acme", snap["company_name"])
	assert.Equal(t, "Acme", v.Branding().CompanyName)
}
