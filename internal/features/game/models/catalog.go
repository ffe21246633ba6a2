package models

import (
	"fmt"
	"math"
	"time"
)

// UpgradeKind is a purchasable upgrade. Each kind carries its price and effect.
type UpgradeKind int

const (
	UpgradeTap UpgradeKind = iota + 1
	UpgradeCap
	UpgradeRegen
	UpgradeShirt
	UpgradeBackground
)

const (
	capStep      = 50
	regenStep    = 0.5
	maxRegen     = 10
	shirtCount   = 5
	tapPowerStep = 1
)

type upgrade struct {
	key   string
	cost  int64
	apply func(*State)
}

var upgrades = map[UpgradeKind]upgrade{
	UpgradeTap:        {key: "tap", cost: 50, apply: func(s *State) { s.TapPower += tapPowerStep }},
	UpgradeCap:        {key: "cap", cost: 80, apply: func(s *State) { s.Cap += capStep }},
	UpgradeRegen:      {key: "regen", cost: 120, apply: func(s *State) { s.RegenPerSec = math.Min(maxRegen, s.RegenPerSec+regenStep) }},
	UpgradeShirt:      {key: "shirt", cost: 30, apply: func(s *State) { s.ShirtIdx = (s.ShirtIdx + 1) % shirtCount }},
	UpgradeBackground: {key: "bg", cost: 60, apply: func(s *State) { s.Theme = nextTheme(s.Theme) }},
}

// ParseUpgradeKind resolves the wire key ("tap", "cap", "regen", "shirt", "bg").
func ParseUpgradeKind(key string) (UpgradeKind, error) {
	for kind, u := range upgrades {
		if u.key == key {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown upgrade kind %q", key)
}

func (k UpgradeKind) String() string {
	if u, ok := upgrades[k]; ok {
		return u.key
	}
	return fmt.Sprintf("UpgradeKind(%d)", int(k))
}

func (k UpgradeKind) Valid() bool {
	_, ok := upgrades[k]
	return ok
}

func (k UpgradeKind) Cost() int64 {
	return upgrades[k].cost
}

// Apply mutates s with the upgrade effect. It does not charge the cost.
func (k UpgradeKind) Apply(s *State) {
	if u, ok := upgrades[k]; ok {
		u.apply(s)
	}
}

func nextTheme(theme string) string {
	switch theme {
	case ThemeDay:
		return ThemeNight
	case ThemeNight:
		return ThemeAuto
	default:
		return ThemeDay
	}
}

// BuildingKind is a structure that can be placed in the player's city.
type BuildingKind int

const (
	BuildingHouse BuildingKind = iota + 1
	BuildingShop
	BuildingTower
)

type building struct {
	key        string
	cost       int64
	population int
}

var buildings = map[BuildingKind]building{
	BuildingHouse: {key: "house", cost: 150, population: 3},
	BuildingShop:  {key: "shop", cost: 400, population: 6},
	BuildingTower: {key: "tower", cost: 1200, population: 12},
}

// ParseBuildingKind resolves the wire key ("house", "shop", "tower").
func ParseBuildingKind(key string) (BuildingKind, error) {
	for kind, b := range buildings {
		if b.key == key {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown building %q", key)
}

func (k BuildingKind) String() string {
	if b, ok := buildings[k]; ok {
		return b.key
	}
	return fmt.Sprintf("BuildingKind(%d)", int(k))
}

func (k BuildingKind) Valid() bool {
	_, ok := buildings[k]
	return ok
}

func (k BuildingKind) Cost() int64 {
	return buildings[k].cost
}

func (k BuildingKind) Population() int {
	return buildings[k].population
}

// Place adds the building to the city of s at the given time. It does not charge the cost.
func (k BuildingKind) Place(s *State, at time.Time) {
	b, ok := buildings[k]
	if !ok {
		return
	}
	if s.City.Buildings == nil {
		s.City.Buildings = []Building{}
	}
	s.City.Buildings = append(s.City.Buildings, Building{Type: b.key, At: at.UTC()})
	s.City.Population += b.population
}
