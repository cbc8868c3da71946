package recurrence

import (
	"strings"
	"sync"
)

// Type is a canonical recurrence kind.
type Type string

const (
	Monthly   Type = "monthly"
	Quarterly Type = "quarterly"
	Yearly    Type = "yearly"
)

// Phase carries what a predicate needs to decide whether a kind fires in
// the current month: the anchor date's calendar fields and today's.
type Phase struct {
	AnchorYear   int
	AnchorMonth  int
	CurrentYear  int
	CurrentMonth int
}

// MonthsSinceAnchor is the signed month distance from anchor to current.
func (p Phase) MonthsSinceAnchor() int {
	return (p.CurrentYear*12 + p.CurrentMonth) - (p.AnchorYear*12 + p.AnchorMonth)
}

// Rule is one entry of the recurrence policy table.
//
// NeedsAnchor rules fail closed when the anchor date cannot be parsed.
type Rule struct {
	NeedsAnchor bool
	Fires       func(Phase) bool
}

var (
	mu       sync.RWMutex
	rules    = map[Type]Rule{}
	synonyms = map[string]Type{}
)

func init() {
	Register(Monthly, Rule{Fires: func(Phase) bool { return true }}, "월별")
	Register(Quarterly, Rule{NeedsAnchor: true, Fires: func(p Phase) bool {
		return p.MonthsSinceAnchor()%3 == 0
	}}, "분기별")
	Register(Yearly, Rule{NeedsAnchor: true, Fires: func(p Phase) bool {
		return p.CurrentMonth == p.AnchorMonth
	}}, "연별", "연간")
}

// Register adds or replaces a recurrence kind and the surface forms that
// normalize to it. The canonical token itself always normalizes.
func Register(t Type, r Rule, aliases ...string) {
	mu.Lock()
	defer mu.Unlock()
	rules[t] = r
	synonyms[string(t)] = t
	for _, a := range aliases {
		synonyms[strings.TrimSpace(a)] = t
	}
}

// NormalizeRecurringType maps a stored value to its canonical Type.
// Matching ignores surrounding space and ASCII case. Non-strings and
// unknown tokens report false.
func NormalizeRecurringType(v any) (Type, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := synonyms[s]; ok {
		return t, true
	}
	if t, ok := synonyms[strings.ToLower(s)]; ok {
		return t, true
	}
	return "", false
}

// ShouldRunRecurring reports whether a definition of kind t anchored at
// anchorStartDate fires in currentYear/currentMonth. The empty kind
// behaves as monthly. Unknown kinds and unparsable anchors never fire.
func ShouldRunRecurring(t Type, anchorStartDate string, currentYear, currentMonth int) bool {
	if t == "" {
		t = Monthly
	}
	mu.RLock()
	r, ok := rules[t]
	mu.RUnlock()
	if !ok {
		return false
	}

	p := Phase{CurrentYear: currentYear, CurrentMonth: currentMonth}
	anchor, err := ParseDate(anchorStartDate)
	if err != nil {
		if r.NeedsAnchor {
			return false
		}
	} else {
		p.AnchorYear, p.AnchorMonth = anchor.Year(), int(anchor.Month())
	}
	return r.Fires(p)
}
