package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestParseUpgradeKind(t *testing.T) {
	cases := map[string]struct {
		kind UpgradeKind
		cost int64
	}{
		"tap":   {UpgradeTap, 50},
		"cap":   {UpgradeCap, 80},
		"regen": {UpgradeRegen, 120},
		"shirt": {UpgradeShirt, 30},
		"bg":    {UpgradeBackground, 60},
	}
	for key, want := range cases {
		kind, err := ParseUpgradeKind(key)
		require.NoError(t, err, key)
		assert.Equal(t, want.kind, kind)
		assert.Equal(t, want.cost, kind.Cost())
		assert.Equal(t, key, kind.String())
		assert.True(t, kind.Valid())
	}

	_, err := ParseUpgradeKind("rocket")
	assert.Error(t, err)
	_, err = ParseUpgradeKind("")
	assert.Error(t, err)
	assert.False(t, UpgradeKind(0).Valid())
}

func TestUpgradeEffects(t *testing.T) {
	s := DefaultState(1, now)

	UpgradeTap.Apply(s)
	assert.Equal(t, int64(2), s.TapPower)

	UpgradeCap.Apply(s)
	assert.Equal(t, 150.0, s.Cap)

	UpgradeRegen.Apply(s)
	assert.Equal(t, 1.5, s.RegenPerSec)
}

func TestUpgradeRegen_Capped(t *testing.T) {
	s := DefaultState(1, now)
	s.RegenPerSec = 9.8

	UpgradeRegen.Apply(s)
	assert.Equal(t, 10.0, s.RegenPerSec)

	UpgradeRegen.Apply(s)
	assert.Equal(t, 10.0, s.RegenPerSec)
}

func TestUpgradeShirt_Wraps(t *testing.T) {
	s := DefaultState(1, now)
	s.ShirtIdx = 4

	UpgradeShirt.Apply(s)
	assert.Equal(t, 0, s.ShirtIdx)
}

func TestUpgradeBackground_Cycles(t *testing.T) {
	s := DefaultState(1, now)

	var seen []string
	for i := 0; i < 4; i++ {
		UpgradeBackground.Apply(s)
		seen = append(seen, s.Theme)
	}
	assert.Equal(t, []string{ThemeNight, ThemeAuto, ThemeDay, ThemeNight}, seen)

	s.Theme = "sepia"
	UpgradeBackground.Apply(s)
	assert.Equal(t, ThemeDay, s.Theme)
}

func TestBuildingPlace(t *testing.T) {
	s := DefaultState(1, now)
	s.City = City{}

	for _, key := range []string{"house", "shop", "tower"} {
		kind, err := ParseBuildingKind(key)
		require.NoError(t, err)
		kind.Place(s, now)
	}

	assert.Equal(t, 21, s.City.Population)
	require.Len(t, s.City.Buildings, 3)
	assert.Equal(t, "tower", s.City.Buildings[2].Type)
	assert.Equal(t, now, s.City.Buildings[2].At)
	assert.Equal(t, int64(1200), BuildingTower.Cost())
	assert.Equal(t, 6, BuildingShop.Population())

	_, err := ParseBuildingKind("castle")
	assert.Error(t, err)
}

func TestStateTick(t *testing.T) {
	s := DefaultState(1, now.Add(-30*time.Second))
	s.Energy = 10

	s.Tick(now)
	assert.Equal(t, 40.0, s.Energy)
	assert.Equal(t, now, s.LastTick)
}

func TestDailyClaimed(t *testing.T) {
	s := DefaultState(1, now)
	assert.False(t, s.DailyClaimed(now))

	morning := time.Date(2024, 3, 1, 0, 5, 0, 0, time.UTC)
	s.LastDailyBonus = &morning
	assert.True(t, s.DailyClaimed(now))
	assert.False(t, s.DailyClaimed(now.Add(24*time.Hour)))

	// 23:30 in UTC-2 is already the next UTC day
	west := time.FixedZone("UTC-2", -2*3600)
	lateEvening := time.Date(2024, 3, 1, 23, 30, 0, 0, west)
	assert.False(t, s.DailyClaimed(lateEvening))
}

func TestLevelTarget(t *testing.T) {
	s := DefaultState(1, now)
	assert.Equal(t, int64(500), s.LevelTarget())
	s.Level = 3
	assert.Equal(t, int64(1500), s.LevelTarget())
}
