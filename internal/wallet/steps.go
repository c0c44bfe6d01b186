package wallet

import "fmt"

// stepPlan fixes the number of screens a flow shows before it starts, then
// hands out ordinals as they are reached.
type stepPlan struct {
	total   int
	current int
}

func newStepPlan(steps ...bool) *stepPlan {
	p := &stepPlan{}
	for _, needed := range steps {
		if needed {
			p.total++
		}
	}
	return p
}

// next returns the label for the next screen, or "" when the flow has a
// single screen.
func (p *stepPlan) next() string {
	p.current++
	if p.total < 2 {
		return ""
	}
	return fmt.Sprintf("Step %d of %d", p.current, p.total)
}
