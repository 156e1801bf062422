package roles

import (
	"errors"
	"testing"
)

// fakeView is a hand-rolled GameView with the recorded mutations exposed for
// assertions.
type fakeView struct {
	day         int
	alive       map[string]bool
	roleOf      map[string]Role
	current     string
	lastGuarded string
	healSpent   bool
	poisonSpent bool
	curseSpent  bool
	acted       map[string]bool

	attacks    []string
	curses     []string
	inspects   []string
	guards     []string
	healed     bool
	poisoned   string
	passed     []string
	retaliated []string
	whispers   []string
}

func newFakeView(living ...string) *fakeView {
	v := &fakeView{
		day:    1,
		alive:  make(map[string]bool),
		roleOf: make(map[string]Role),
		acted:  make(map[string]bool),
	}
	for _, id := range living {
		v.alive[id] = true
		v.roleOf[id] = New(Villager)
	}
	return v
}

func (v *fakeView) Day() int { return v.day }
func (v *fakeView) IsAlive(id string) bool { return v.alive[id] }
func (v *fakeView) RoleOf(id string) Role { return v.roleOf[id] }
func (v *fakeView) CurrentTarget() string { return v.current }
func (v *fakeView) LastGuarded() string { return v.lastGuarded }
func (v *fakeView) HealAvailable() bool { return !v.healSpent }
func (v *fakeView) PoisonAvailable() bool { return !v.poisonSpent }
func (v *fakeView) CurseAvailable() bool { return !v.curseSpent }
func (v *fakeView) HasActed(id string) bool { return v.acted[id] }

func (v *fakeView) Living() []string {
	var out []string
	for id, ok := range v.alive {
		if ok {
			out = append(out, id)
		}
	}
	return out
}

func (v *fakeView) RecordAttack(actor, target string) {
	v.attacks = append(v.attacks, target)
	v.acted[actor] = true
}

func (v *fakeView) RecordCurse(actor, target string) {
	v.curses = append(v.curses, target)
	v.acted[actor] = true
	v.curseSpent = true
}

func (v *fakeView) RecordInspect(actor, target string) {
	v.inspects = append(v.inspects, target)
	v.acted[actor] = true
}

func (v *fakeView) RecordGuard(actor, target string) {
	v.guards = append(v.guards, target)
	v.acted[actor] = true
}

func (v *fakeView) RecordHeal(actor string) {
	v.healed = true
	v.healSpent = true
}

func (v *fakeView) RecordPoison(actor, target string) {
	v.poisoned = target
	v.acted[actor] = true
	v.poisonSpent = true
}

func (v *fakeView) RecordPass(actor string) { v.acted[actor] = true }
func (v *fakeView) QueueRetaliation(h string) { v.retaliated = append(v.retaliated, h) }
func (v *fakeView) Whisper(id, msg string) { v.whispers = append(v.whispers, msg) }
func (v *fakeView) TeamLog(team Team, msg string) {}

func act(t *testing.T, r Role, v GameView, actor, raw string) error {
	t.Helper()
	choice, err := ParseChoice(raw, r.ID())
	if err != nil {
		return err
	}
	return r.Act(&ActionContext{View: v, Actor: actor, Choice: choice})
}

func TestForCount(t *testing.T) {
	cases := []struct {
		count  int
		wolves int
		has    []ID
		not    []ID
	}{
		{4, 1, []ID{Werewolf, Seer, Bodyguard, Villager}, []ID{Witch, Hunter}},
		{6, 1, []ID{Witch}, []ID{Hunter, CursedWerewolf}},
		{8, 2, []ID{Witch, Hunter}, []ID{CursedWerewolf}},
		{10, 3, []ID{CursedWerewolf}, nil},
		{12, 4, []ID{CursedWerewolf}, nil},
	}
	for _, tc := range cases {
		queue := ForCount(tc.count)
		if len(queue) != tc.count {
			t.Fatalf("ForCount(%d) returned %d roles", tc.count, len(queue))
		}
		wolves := 0
		seen := make(map[ID]int)
		for _, id := range queue {
			seen[id]++
			if New(id).Team() == TeamWerewolf {
				wolves++
			}
		}
		if wolves != tc.wolves {
			t.Errorf("ForCount(%d): %d werewolf-aligned roles, want %d", tc.count, wolves, tc.wolves)
		}
		for _, id := range tc.has {
			if seen[id] == 0 {
				t.Errorf("ForCount(%d): missing %s", tc.count, id)
			}
		}
		for _, id := range tc.not {
			if seen[id] != 0 {
				t.Errorf("ForCount(%d): unexpected %s", tc.count, id)
			}
		}
	}
}

func TestParseChoice(t *testing.T) {
	cases := []struct {
		raw    string
		role   ID
		kind   ChoiceKind
		target string
		bad    bool
	}{
		{"attack:bob", Werewolf, ChoiceAttack, "bob", false},
		{"bob", Werewolf, ChoiceAttack, "bob", false},
		{"kill:bob", Werewolf, ChoiceAttack, "bob", false},
		{"kill:bob", Witch, ChoicePoison, "bob", false},
		{"curse: bob ", CursedWerewolf, ChoiceCurse, "bob", false},
		{"inspect:bob", Seer, ChoiceInspect, "bob", false},
		{"bob", Seer, ChoiceInspect, "bob", false},
		{"protect:bob", Bodyguard, ChoiceGuard, "bob", false},
		{"heal", Witch, ChoiceHeal, "", false},
		{"save", Witch, ChoiceHeal, "", false},
		{"poison:bob", Witch, ChoicePoison, "bob", false},
		{"shoot:bob", Hunter, ChoiceShoot, "bob", false},
		{"bob", Hunter, ChoiceShoot, "bob", false},
		{"pass", Werewolf, ChoiceNone, "", false},
		{"", Witch, ChoiceNone, "", false},
		{"bob", Witch, "", "", true},
		{"bob", Villager, "", "", true},
	}
	for _, tc := range cases {
		got, err := ParseChoice(tc.raw, tc.role)
		if tc.bad {
			if !errors.Is(err, ErrBadChoice) {
				t.Errorf("ParseChoice(%q, %s): want ErrBadChoice, got %v", tc.raw, tc.role, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseChoice(%q, %s): %v", tc.raw, tc.role, err)
			continue
		}
		if got.Kind != tc.kind || got.Target != tc.target {
			t.Errorf("ParseChoice(%q, %s) = %+v, want kind=%s target=%q", tc.raw, tc.role, got, tc.kind, tc.target)
		}
	}
}

func TestWerewolfAct(t *testing.T) {
	v := newFakeView("wolf", "bob", "eve")
	v.roleOf["wolf"] = New(Werewolf)
	w := New(Werewolf)

	if err := act(t, w, v, "wolf", "attack:ghost"); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("attacking a dead player: %v", err)
	}
	if err := act(t, w, v, "wolf", "attack:wolf"); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("attacking a packmate: %v", err)
	}
	if err := act(t, w, v, "wolf", "attack:bob"); err != nil {
		t.Fatalf("legal attack: %v", err)
	}
	if len(v.attacks) != 1 || v.attacks[0] != "bob" {
		t.Fatalf("attacks = %v", v.attacks)
	}
	if err := act(t, w, v, "wolf", "attack:eve"); !errors.Is(err, ErrAlreadyActed) {
		t.Fatalf("second attack: %v", err)
	}
}

func TestCursedWerewolfAct(t *testing.T) {
	v := newFakeView("cursed", "bob", "eve")
	v.roleOf["cursed"] = New(CursedWerewolf)
	cw := New(CursedWerewolf)

	if err := act(t, cw, v, "cursed", "curse:cursed"); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("cursing self: %v", err)
	}
	if err := act(t, cw, v, "cursed", "curse:bob"); err != nil {
		t.Fatalf("legal curse: %v", err)
	}
	if len(v.curses) != 1 || v.curses[0] != "bob" {
		t.Fatalf("curses = %v", v.curses)
	}
	if !v.curseSpent {
		t.Fatal("curse not marked spent")
	}

	v2 := newFakeView("cursed", "bob")
	v2.curseSpent = true
	if err := act(t, cw, v2, "cursed", "curse:bob"); !errors.Is(err, ErrCurseSpent) {
		t.Fatalf("spent curse: %v", err)
	}
	// The fallback attack still works with the curse spent.
	if err := act(t, cw, v2, "cursed", "attack:bob"); err != nil {
		t.Fatalf("attack after spent curse: %v", err)
	}
}

func TestSeerAct(t *testing.T) {
	v := newFakeView("seer", "bob")
	s := New(Seer)
	if err := act(t, s, v, "seer", "inspect:seer"); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("inspecting self: %v", err)
	}
	if err := act(t, s, v, "seer", "inspect:bob"); err != nil {
		t.Fatalf("legal inspect: %v", err)
	}
	if len(v.inspects) != 1 || v.inspects[0] != "bob" {
		t.Fatalf("inspects = %v", v.inspects)
	}
}

func TestBodyguardAct(t *testing.T) {
	v := newFakeView("guard", "bob")
	v.lastGuarded = "bob"
	b := New(Bodyguard)
	if err := act(t, b, v, "guard", "guard:bob"); !errors.Is(err, ErrGuardRepeat) {
		t.Fatalf("repeat guard: %v", err)
	}
	// Guarding self is allowed.
	if err := act(t, b, v, "guard", "guard:guard"); err != nil {
		t.Fatalf("guarding self: %v", err)
	}
	if len(v.guards) != 1 || v.guards[0] != "guard" {
		t.Fatalf("guards = %v", v.guards)
	}
}

func TestWitchHealThenPoisonSameNight(t *testing.T) {
	v := newFakeView("witch", "bob", "eve")
	v.current = "bob"
	w := New(Witch)

	if err := act(t, w, v, "witch", "heal"); err != nil {
		t.Fatalf("heal: %v", err)
	}
	if !v.healed || !v.healSpent {
		t.Fatal("heal not recorded")
	}
	// The heal does not close her turn.
	if v.acted["witch"] {
		t.Fatal("heal should not mark the witch as done")
	}
	if err := act(t, w, v, "witch", "heal"); !errors.Is(err, ErrPotionSpent) {
		t.Fatalf("second heal: %v", err)
	}
	if err := act(t, w, v, "witch", "poison:bob"); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("poisoning the healed victim: %v", err)
	}
	if err := act(t, w, v, "witch", "poison:eve"); err != nil {
		t.Fatalf("poison: %v", err)
	}
	if v.poisoned != "eve" || !v.acted["witch"] {
		t.Fatalf("poison not recorded: %q acted=%v", v.poisoned, v.acted["witch"])
	}
	if w.CanAct(v) {
		t.Fatal("witch with both potions spent should report CanAct=false")
	}
}

func TestWitchHealRequiresVictim(t *testing.T) {
	v := newFakeView("witch", "bob")
	w := New(Witch)
	if err := act(t, w, v, "witch", "heal"); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("heal with no victim: %v", err)
	}
}

func TestHunterQueuesRetaliationOnDeath(t *testing.T) {
	v := newFakeView("hunter", "bob")
	h := New(Hunter)
	if err := act(t, h, v, "hunter", "shoot:bob"); !errors.Is(err, ErrNoAbility) {
		t.Fatalf("hunter night action: %v", err)
	}
	h.OnDeath(&DeathContext{View: v, Victim: "hunter", Cause: CauseExecution})
	if len(v.retaliated) != 1 || v.retaliated[0] != "hunter" {
		t.Fatalf("retaliations = %v", v.retaliated)
	}
}

func TestNewDegradesUnknownRole(t *testing.T) {
	r := New(ID("chupacabra"))
	if r.ID() != Villager {
		t.Fatalf("unknown role became %s, want villager", r.ID())
	}
	if Known(ID("chupacabra")) {
		t.Fatal("chupacabra should not be a known role")
	}
	for _, id := range []ID{Werewolf, CursedWerewolf, Seer, Bodyguard, Witch, Hunter, Villager} {
		if !Known(id) {
			t.Errorf("%s should be known", id)
		}
		if New(id).ID() != id {
			t.Errorf("New(%s) built %s", id, New(id).ID())
		}
	}
}
