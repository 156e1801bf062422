package engine

import (
	"strings"
	"testing"

	"github.com/gosuda/werewolf/engine/roles"
)

// Agent choices are random; these tests assert legality, not strategy: every
// submission must parse for the agent's role and respect its constraints.

func TestAgentWerewolfChoiceIsLegal(t *testing.T) {
	a := newAgent()
	a.assign(roles.Werewolf, roles.TeamWerewolf, []PlayerInfo{{ID: "packmate"}})
	living := []string{a.id, "packmate", "v1", "v2"}

	for i := 0; i < 100; i++ {
		raw := a.nightChoice(agentNightPrompt{Sub: roles.PhaseWerewolf, Living: living})
		c, err := roles.ParseChoice(raw, roles.Werewolf)
		if err != nil {
			t.Fatalf("choice %q did not parse: %v", raw, err)
		}
		switch c.Kind {
		case roles.ChoiceNone:
		case roles.ChoiceAttack:
			if c.Target == a.id || c.Target == "packmate" {
				t.Fatalf("agent targeted its own pack: %q", raw)
			}
		default:
			t.Fatalf("unexpected kind %s from %q", c.Kind, raw)
		}
	}
}

func TestAgentCursedWerewolfChoiceIsLegal(t *testing.T) {
	a := newAgent()
	a.assign(roles.CursedWerewolf, roles.TeamWerewolf, nil)
	living := []string{a.id, "v1", "v2"}

	sawCurse := false
	for i := 0; i < 200; i++ {
		raw := a.nightChoice(agentNightPrompt{Sub: roles.PhaseWerewolf, Living: living, CurseAvailable: true})
		c, err := roles.ParseChoice(raw, roles.CursedWerewolf)
		if err != nil {
			t.Fatalf("choice %q did not parse: %v", raw, err)
		}
		if c.Kind == roles.ChoiceCurse {
			sawCurse = true
			if c.Target == a.id {
				t.Fatalf("agent cursed itself: %q", raw)
			}
		}
	}
	if !sawCurse {
		t.Error("cursed werewolf agent never tried its curse in 200 draws")
	}
}

func TestAgentSupportRoleChoicesAreLegal(t *testing.T) {
	a := newAgent()
	a.assign(roles.Seer, roles.TeamVillager, nil)
	living := []string{a.id, "v1", "v2"}

	for i := 0; i < 50; i++ {
		raw := a.nightChoice(agentNightPrompt{Sub: roles.PhaseSeer, Living: living})
		if !strings.HasPrefix(raw, "inspect:") {
			t.Fatalf("seer choice = %q", raw)
		}
		if strings.TrimPrefix(raw, "inspect:") == a.id {
			t.Fatalf("seer inspected itself: %q", raw)
		}
	}

	for i := 0; i < 50; i++ {
		raw := a.nightChoice(agentNightPrompt{Sub: roles.PhaseBodyguard, Living: living, LastGuarded: "v1"})
		if !strings.HasPrefix(raw, "guard:") {
			t.Fatalf("bodyguard choice = %q", raw)
		}
		if strings.TrimPrefix(raw, "guard:") == "v1" {
			t.Fatalf("bodyguard repeated last night's target: %q", raw)
		}
	}
}

func TestAgentWitchChoiceIsLegal(t *testing.T) {
	a := newAgent()
	a.assign(roles.Witch, roles.TeamVillager, nil)
	living := []string{a.id, "v1", "v2"}

	for i := 0; i < 200; i++ {
		raw := a.nightChoice(agentNightPrompt{
			Sub: roles.PhaseWitch, Living: living,
			CurrentTarget: "v1", HealAvailable: true, PoisonAvailable: true,
		})
		c, err := roles.ParseChoice(raw, roles.Witch)
		if err != nil {
			t.Fatalf("choice %q did not parse: %v", raw, err)
		}
		if c.Kind == roles.ChoicePoison && (c.Target == a.id || c.Target == "v1") {
			t.Fatalf("illegal poison target in %q", raw)
		}
	}

	// With everything spent the witch agent can only pass.
	for i := 0; i < 20; i++ {
		raw := a.nightChoice(agentNightPrompt{Sub: roles.PhaseWitch, Living: living})
		if raw != "pass" {
			t.Fatalf("spent witch chose %q", raw)
		}
	}
}

func TestAgentVoteChoiceIsLegal(t *testing.T) {
	a := newAgent()
	a.assign(roles.Werewolf, roles.TeamWerewolf, []PlayerInfo{{ID: "packmate"}})
	living := []string{a.id, "packmate", "v1", "v2"}

	for i := 0; i < 100; i++ {
		raw := a.voteChoice(living)
		if raw == a.id || raw == "packmate" {
			t.Fatalf("wolf agent voted for its own pack: %q", raw)
		}
	}

	b := newAgent()
	b.assign(roles.Villager, roles.TeamVillager, nil)
	for i := 0; i < 100; i++ {
		raw := b.voteChoice([]string{b.id, "v1"})
		if raw == b.id {
			t.Fatalf("villager agent voted for itself")
		}
	}
}

func TestAgentRetaliationChoiceIsLegal(t *testing.T) {
	a := newAgent()
	a.assign(roles.Hunter, roles.TeamVillager, nil)
	living := []string{"v1", "v2"}

	for i := 0; i < 100; i++ {
		raw := a.retaliationChoice(living)
		c, err := roles.ParseChoice(raw, roles.Hunter)
		if err != nil {
			t.Fatalf("choice %q did not parse: %v", raw, err)
		}
		if c.Kind != roles.ChoiceNone && c.Kind != roles.ChoiceShoot {
			t.Fatalf("unexpected kind %s", c.Kind)
		}
	}
}
