package engine

// GameplayTag is a member of the closed gameplay vocabulary.
type GameplayTag uint8

const (
	TagPlayer GameplayTag = iota
	TagEnemy
	TagProjectile
	TagPickup
	TagHazard
	TagStatic
	TagInteractive
	numGameplayTags
)

var gameplayTagNames = [numGameplayTags]string{
	TagPlayer:      "player",
	TagEnemy:       "enemy",
	TagProjectile:  "projectile",
	TagPickup:      "pickup",
	TagHazard:      "hazard",
	TagStatic:      "static",
	TagInteractive: "interactive",
}

func (t GameplayTag) String() string {
	if t >= numGameplayTags {
		return "unknown"
	}
	return gameplayTagNames[t]
}

// ParseGameplayTag maps a serialized name back to its tag.
func ParseGameplayTag(name string) (GameplayTag, bool) {
	for i, n := range gameplayTagNames {
		if n == name {
			return GameplayTag(i), true
		}
	}
	return 0, false
}

// GameplayTags is a set of gameplay tags.
type GameplayTags uint32

func (s GameplayTags) Has(t GameplayTag) bool { return s&(1<<t) != 0 }

func (s GameplayTags) With(t GameplayTag) GameplayTags { return s | 1<<t }

func (s GameplayTags) Without(t GameplayTag) GameplayTags { return s &^ (1 << t) }

// Names lists the members in declaration order.
func (s GameplayTags) Names() []string {
	var out []string
	for t := GameplayTag(0); t < numGameplayTags; t++ {
		if s.Has(t) {
			out = append(out, t.String())
		}
	}
	return out
}
