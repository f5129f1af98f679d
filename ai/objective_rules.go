package ai

import "github.com/lab1702/fighter-ai/game"

// objectiveContext is the state the objective rules are evaluated against,
// resolved once per tick.
type objectiveContext struct {
	order    game.RadioAction
	form     bool
	directed bool

	target  *game.Ship
	ward    *game.Ship
	threat  *game.Ship
	support *game.Ship
	rumor   *game.Ship
}

// objectiveRule pairs a condition with the objective it selects. Rules are
// tried in order and the first match wins.
type objectiveRule struct {
	name  string
	when  func(fa *FighterAI, c *objectiveContext) bool
	apply func(fa *FighterAI, c *objectiveContext)
}

var objectiveRules = []objectiveRule{
	{
		name: "quantum",
		when: func(_ *FighterAI, c *objectiveContext) bool {
			return c.order == game.RadioQuantumTo || c.order == game.RadioFarcastTo
		},
		apply: func(fa *FighterAI, _ *objectiveContext) {
			fa.FindObjectiveQuantum()
			fa.objective = fa.Transform(fa.objW)
		},
	},
	{
		// wingmen stay in formation unless released
		name: "formation",
		when: func(fa *FighterAI, c *objectiveContext) bool {
			return c.form && fa.elementIndex > 1
		},
		apply: func(fa *FighterAI, _ *objectiveContext) {
			fa.ship.SetDirectorInfo(InfoFormation)
			if fa.navpt != nil && fa.navpt.Action == game.ActionLaunch {
				fa.findObjectiveNavPoint()
			} else {
				fa.navpt = nil
				fa.FindObjectiveFormation()
			}
			fa.objective = fa.Transform(fa.objW)
		},
	},
	{
		name: "regroup",
		when: func(fa *FighterAI, c *objectiveContext) bool {
			return c.threat != nil && !c.directed && c.support != nil &&
				game.Distance(c.support.Loc, fa.ship.Loc) > fa.tuning.SupportRange
		},
		apply: func(fa *FighterAI, c *objectiveContext) {
			fa.ship.SetDirectorInfo(InfoRegroup)
			fa.FindObjectiveTarget(c.support)
			fa.objective = fa.Transform(fa.objW)
		},
	},
	{
		name: "retreat",
		when: func(_ *FighterAI, c *objectiveContext) bool {
			return c.threat != nil && !c.directed && c.support == nil && c.threat != c.target
		},
		apply: func(fa *FighterAI, c *objectiveContext) {
			s := fa.ship
			s.SetDirectorInfo(InfoRetreat)
			fa.objW = s.Loc.Add(s.Loc.Sub(c.threat.Loc).Scale(RetreatFactor))
			fa.objective = fa.Transform(fa.objW)
		},
	},
	{
		name: "target",
		when: func(_ *FighterAI, c *objectiveContext) bool { return c.target != nil },
		apply: func(fa *FighterAI, c *objectiveContext) {
			fa.ship.SetDirectorInfo(InfoSeekTarget)
			fa.FindObjectiveTarget(c.target)
			fa.objective = fa.AimTransform(fa.objW)
		},
	},
	{
		name: "patrol",
		when: func(fa *FighterAI, _ *objectiveContext) bool { return fa.patrol },
		apply: func(fa *FighterAI, _ *objectiveContext) {
			fa.ship.SetDirectorInfo(InfoPatrol)
			fa.FindObjectivePatrol()
			fa.objective = fa.Transform(fa.objW)
		},
	},
	{
		name: "ward",
		when: func(_ *FighterAI, c *objectiveContext) bool { return c.ward != nil },
		apply: func(fa *FighterAI, _ *objectiveContext) {
			fa.ship.SetDirectorInfo(InfoSeekWard)
			fa.FindObjectiveFormation()
			fa.objective = fa.Transform(fa.objW)
		},
	},
	{
		name: "navpoint",
		when: func(fa *FighterAI, c *objectiveContext) bool { return fa.navpt != nil && c.form },
		apply: func(fa *FighterAI, _ *objectiveContext) {
			fa.ship.SetDirectorInfo(InfoSeekNavpoint)
			fa.findObjectiveNavPoint()
			fa.objective = fa.Transform(fa.objW)
		},
	},
	{
		name: "rumor",
		when: func(_ *FighterAI, c *objectiveContext) bool { return c.rumor != nil },
		apply: func(fa *FighterAI, c *objectiveContext) {
			fa.ship.SetDirectorInfo(InfoSearch)
			fa.FindObjectiveTarget(c.rumor)
			fa.objective = fa.Transform(fa.objW)
		},
	},
}

func (fa *FighterAI) resolveObjectiveContext() *objectiveContext {
	s := fa.ship
	order := s.RadioOrders.RadioAction()

	c := &objectiveContext{
		order:    order,
		directed: order == game.RadioAttack,
		target:   fa.world.Ship(fa.target),
		ward:     fa.world.Ship(s.Ward),
		threat:   fa.world.Ship(fa.threat),
		support:  fa.world.Ship(fa.support),
		rumor:    fa.world.Ship(fa.rumor),
	}

	switch order {
	case game.RadioWepHold, game.RadioFormUp, game.RadioMovePatrol, game.RadioRTB, game.RadioDockWith:
		c.form = true
	case game.RadioNone:
		c.form = c.target == nil
	}
	if fa.ActiveFarcaster() != nil {
		c.form = true
	}
	return c
}

// findObjectiveRules runs the general objective rules. With no rule
// matching the objective is cleared.
func (fa *FighterAI) findObjectiveRules() {
	fa.distance = 0
	c := fa.resolveObjectiveContext()

	for _, r := range objectiveRules {
		if r.when(fa, c) {
			r.apply(fa, c)
			return
		}
	}

	fa.objW = game.Zero
	fa.objective = game.Zero
}
