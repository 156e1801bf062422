package roles

import "strings"

// ChoiceKind tags a parsed night choice.
type ChoiceKind string

const (
	ChoiceNone    ChoiceKind = "none"
	ChoiceAttack  ChoiceKind = "attack"
	ChoiceCurse   ChoiceKind = "curse"
	ChoiceInspect ChoiceKind = "inspect"
	ChoiceGuard   ChoiceKind = "guard"
	ChoiceHeal    ChoiceKind = "heal"
	ChoicePoison  ChoiceKind = "poison"
	ChoiceShoot   ChoiceKind = "shoot"
)

// Choice is the tagged union a raw submission parses into. Target is empty
// for kinds that take none (heal, none).
type Choice struct {
	Kind   ChoiceKind
	Target string
}

// ParseChoice turns the binding's raw string into a Choice for the given
// role. Accepted shapes are "verb", "verb:target", or a bare target id which
// takes the role's default verb. Verbs are role-sensitive: "kill" is an
// attack for a werewolf and poison for the witch.
func ParseChoice(raw string, role ID) (Choice, error) {
	raw = strings.TrimSpace(raw)
	verb := raw
	target := ""
	if i := strings.IndexByte(raw, ':'); i >= 0 {
		verb = strings.TrimSpace(raw[:i])
		target = strings.TrimSpace(raw[i+1:])
	}
	switch strings.ToLower(verb) {
	case "", "none", "pass", "skip":
		return Choice{Kind: ChoiceNone}, nil
	case "attack":
		return Choice{Kind: ChoiceAttack, Target: target}, nil
	case "curse":
		return Choice{Kind: ChoiceCurse, Target: target}, nil
	case "inspect", "see":
		return Choice{Kind: ChoiceInspect, Target: target}, nil
	case "guard", "protect":
		return Choice{Kind: ChoiceGuard, Target: target}, nil
	case "heal", "save":
		return Choice{Kind: ChoiceHeal}, nil
	case "poison":
		return Choice{Kind: ChoicePoison, Target: target}, nil
	case "shoot", "fire":
		return Choice{Kind: ChoiceShoot, Target: target}, nil
	case "kill":
		if role == Witch {
			return Choice{Kind: ChoicePoison, Target: target}, nil
		}
		return Choice{Kind: ChoiceAttack, Target: target}, nil
	}
	// Bare target id: use the role's default verb.
	if target == "" && raw != "" {
		if kind, ok := defaultKind(role); ok {
			return Choice{Kind: kind, Target: raw}, nil
		}
	}
	return Choice{}, ErrBadChoice
}

func defaultKind(role ID) (ChoiceKind, bool) {
	switch role {
	case Werewolf, CursedWerewolf:
		return ChoiceAttack, true
	case Seer:
		return ChoiceInspect, true
	case Bodyguard:
		return ChoiceGuard, true
	case Hunter:
		return ChoiceShoot, true
	default:
		// The witch must name heal or poison explicitly.
		return "", false
	}
}
