// Package plan defines subscription tiers and how much of the generated
// catalog each tier may page or search through.
package plan

import "strings"

// Plan is a subscription tier.
type Plan string

// Known plans.
const (
	Free       Plan = "free"
	Pro        Plan = "pro"
	Ultra      Plan = "ultra"
	Individual Plan = "individual"
)

var ceilings = map[Plan]int{
	Free:       2000,
	Pro:        10000,
	Ultra:      25000,
	Individual: 50000,
}

// All returns the known plans from smallest to largest ceiling.
func All() []Plan {
	return []Plan{Free, Pro, Ultra, Individual}
}

// Parse maps s onto a known plan. Unknown or empty input is Free.
func Parse(s string) Plan {
	p := Plan(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ceilings[p]; ok {
		return p
	}
	return Free
}

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	_, ok := ceilings[p]
	return ok
}

// Ceiling is the exclusive upper catalog index visible to p. Unknown plans
// get the Free ceiling.
func (p Plan) Ceiling() int {
	if c, ok := ceilings[p]; ok {
		return c
	}
	return ceilings[Free]
}

func (p Plan) String() string {
	return string(p)
}
