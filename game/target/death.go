package target

import "github.com/kasuganosora/rotationsolver/game/world"

// SelectDeathTarget picks who to revive. Only revival-capable jobs get a
// target. The first dead party member in set order comes first, then the
// alliance ranked under the configured raise policy, then friendly NPCs
// when NPC revival is enabled.
func (c *Classifier) SelectDeathTarget(snap *world.Snapshot, sets Sets) *world.Entity {
	if !c.cfg.canRaise(snap.Job()) {
		return nil
	}
	if party := dead(sets.Party); len(party) > 0 {
		return party[0]
	}
	if t := PriorityDeathTarget(dead(sets.Alliance), c.cfg.RaiseType); t != nil {
		return t
	}
	if c.cfg.FriendlyPartyNPCHealRaise {
		return PriorityDeathTarget(dead(sets.FriendlyNPCs), RaisePartyOnly)
	}
	return nil
}

// PriorityDeathTarget ranks a list of dead entities.
//
// With RaisePartyAndAllianceHealers a dead healer wins outright. Otherwise:
// the first dead tank when more than one tank is down, then the first dead
// healer, then the first dead tank, then the first entry. The ">1 tank"
// threshold is an encounter-specific quirk kept as is; it is not applied to
// other roles.
func PriorityDeathTarget(deadList []*world.Entity, raise RaiseType) *world.Entity {
	if len(deadList) == 0 {
		return nil
	}
	var tanks, healers []*world.Entity
	for _, e := range deadList {
		switch e.Role {
		case world.RoleTank:
			tanks = append(tanks, e)
		case world.RoleHealer:
			healers = append(healers, e)
		}
	}
	if raise == RaisePartyAndAllianceHealers && len(healers) > 0 {
		return healers[0]
	}
	if len(tanks) > 1 {
		return tanks[0]
	}
	if len(healers) > 0 {
		return healers[0]
	}
	if len(tanks) > 0 {
		return tanks[0]
	}
	return deadList[0]
}

func dead(set []*world.Entity) []*world.Entity {
	var out []*world.Entity
	for _, e := range set {
		if e.IsDead() {
			out = append(out, e)
		}
	}
	return out
}
