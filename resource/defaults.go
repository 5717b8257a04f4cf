package resource

// Defaults returns the built-in tables: the statuses the classifier cares
// about and every combat job.
func Defaults() *Tables {
	t := NewTables()
	for _, s := range defaultStatuses {
		t.AddStatus(s)
	}
	for _, j := range defaultJobs {
		t.AddJob(j)
	}
	return t
}

var defaultStatuses = []StatusInfo{
	{ID: 17, Name: "Paralysis", Kind: "debuff", Dispellable: true},
	{ID: 151, Name: "Invincibility", Kind: "buff", Invincible: true},
	{ID: 325, Name: "Invincibility", Kind: "buff", Invincible: true},
	{ID: 394, Name: "Invincibility", Kind: "buff", Invincible: true},
	{ID: 529, Name: "Invincibility", Kind: "buff", Invincible: true},
	{ID: 910, Name: "Doom", Kind: "debuff", Dangerous: true, Dispellable: true},
	{ID: 1769, Name: "Throttle", Kind: "debuff", Dangerous: true, Dispellable: true},
	{ID: 2552, Name: "Magic Shield", Kind: "buff", Positional: "front"},
	{ID: 3034, Name: "Mortal Flame", Kind: "debuff", Dangerous: true},
}

var defaultJobs = []JobInfo{
	{Job: "PLD", Role: "tank"},
	{Job: "WAR", Role: "tank"},
	{Job: "DRK", Role: "tank"},
	{Job: "GNB", Role: "tank"},
	{Job: "WHM", Role: "healer", CanRaise: true, CanDispel: true},
	{Job: "SCH", Role: "healer", CanRaise: true, CanDispel: true},
	{Job: "AST", Role: "healer", CanRaise: true, CanDispel: true},
	{Job: "SGE", Role: "healer", CanRaise: true, CanDispel: true},
	{Job: "MNK", Role: "damage"},
	{Job: "DRG", Role: "damage"},
	{Job: "NIN", Role: "damage"},
	{Job: "SAM", Role: "damage"},
	{Job: "RPR", Role: "damage"},
	{Job: "VPR", Role: "damage"},
	{Job: "BRD", Role: "damage", CanDispel: true},
	{Job: "MCH", Role: "damage"},
	{Job: "DNC", Role: "damage"},
	{Job: "BLM", Role: "damage"},
	{Job: "SMN", Role: "damage", CanRaise: true},
	{Job: "RDM", Role: "damage", CanRaise: true},
	{Job: "PCT", Role: "damage"},
}
