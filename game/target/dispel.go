package target

import "github.com/kasuganosora/rotationsolver/game/world"

// SelectDispelTarget picks who to cleanse. Party members with a dangerous
// status outrank every distance-only pool: nearest dangerous party member,
// else nearest dispellable party member, else nearest dispellable friendly
// NPC.
func (c *Classifier) SelectDispelTarget(snap *world.Snapshot, sets Sets) *world.Entity {
	if !c.cfg.canDispel(snap.Job()) {
		return nil
	}
	weakened := withDispellable(sets.Party)
	weakenedNPCs := withDispellable(sets.FriendlyNPCs)

	var dying []*world.Entity
	for _, e := range weakened {
		if hasDangerous(e) {
			dying = append(dying, e)
		}
	}

	for _, pool := range [][]*world.Entity{dying, weakened, weakenedNPCs} {
		if t := Nearest(snap.Player, pool); t != nil {
			return t
		}
	}
	return nil
}

func withDispellable(set []*world.Entity) []*world.Entity {
	var out []*world.Entity
	for _, e := range set {
		for _, s := range e.Statuses {
			if s.CanDispel() {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func hasDangerous(e *world.Entity) bool {
	for _, s := range e.Statuses {
		if s.IsDangerous() {
			return true
		}
	}
	return false
}
