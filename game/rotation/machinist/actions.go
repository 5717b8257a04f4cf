package machinist

import (
	"github.com/kasuganosora/rotationsolver/game/action"
	"github.com/kasuganosora/rotationsolver/game/world"
)

// Action ids.
const (
	SplitShot  world.ActionID = 2866
	SlugShot   world.ActionID = 2868
	SpreadShot world.ActionID = 2870
	CleanShot  world.ActionID = 2873
	GaussRound world.ActionID = 2874
	Reassemble world.ActionID = 2876
	Wildfire   world.ActionID = 2878
	Ricochet   world.ActionID = 2890
	HeadGraze  world.ActionID = 7551
	Drill      world.ActionID = 16498
	Bioblaster world.ActionID = 16499
	AirAnchor  world.ActionID = 16500
	Tactician  world.ActionID = 16889
	ChainSaw   world.ActionID = 25788

	// Medicine is the shared recast group of combat potions.
	Medicine world.ActionID = 846
)

// Gemdraught is the dexterity potion used as burst medicine.
const Gemdraught world.ItemID = 44163

// Reassembled is the self buff applied by Reassemble.
const Reassembled world.StatusID = 851

type catalog struct {
	splitShot, slugShot, cleanShot, spreadShot *action.Base
	drill, airAnchor, chainSaw, bioblaster     *action.Base
	reassemble, wildfire, gaussRound, ricochet *action.Base
	tactician, headGraze, medicine             *action.Base
}

func newCatalog() *catalog {
	gcd := func(id world.ActionID, name string, mode action.TargetMode, rng float64) *action.Base {
		return &action.Base{ActionID: id, ActionName: name, Kind: action.KindGCD, Target: mode, Range: rng}
	}
	ability := func(id world.ActionID, name string, mode action.TargetMode, rng float64) *action.Base {
		return &action.Base{ActionID: id, ActionName: name, Kind: action.KindAbility, Target: mode, Range: rng}
	}

	c := &catalog{
		splitShot:  gcd(SplitShot, "Split Shot", action.TargetHostile, 25),
		slugShot:   gcd(SlugShot, "Slug Shot", action.TargetHostile, 25),
		cleanShot:  gcd(CleanShot, "Clean Shot", action.TargetHostile, 25),
		spreadShot: gcd(SpreadShot, "Spread Shot", action.TargetArea, 12),
		drill:      gcd(Drill, "Drill", action.TargetHostile, 25),
		airAnchor:  gcd(AirAnchor, "Air Anchor", action.TargetHostile, 25),
		chainSaw:   gcd(ChainSaw, "Chain Saw", action.TargetHostile, 25),
		bioblaster: gcd(Bioblaster, "Bioblaster", action.TargetArea, 12),
		reassemble: ability(Reassemble, "Reassemble", action.TargetSelf, 0),
		wildfire:   ability(Wildfire, "Wildfire", action.TargetHostile, 25),
		gaussRound: ability(GaussRound, "Gauss Round", action.TargetHostile, 25),
		ricochet:   ability(Ricochet, "Ricochet", action.TargetArea, 25),
		tactician:  ability(Tactician, "Tactician", action.TargetSelf, 0),
		headGraze:  ability(HeadGraze, "Head Graze", action.TargetInterrupt, 25),
		medicine: &action.Base{
			ActionID: Medicine, ActionName: "Gemdraught of Dexterity",
			Kind: action.KindItem, Target: action.TargetSelf, Item: Gemdraught,
		},
	}
	c.slugShot.ComboAfter = []world.ActionID{SplitShot}
	c.cleanShot.ComboAfter = []world.ActionID{SlugShot}
	c.spreadShot.MinAoE = 3
	c.bioblaster.MinAoE = 2
	c.ricochet.MinAoE = 1
	c.reassemble.Provides = []world.StatusID{Reassembled}
	return c
}
