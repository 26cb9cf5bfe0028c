// Package wizard drives the multi-step add forms.
package wizard

// Wizard tracks the visible step of an N-step form, starting at 1.
// Moving between steps never submits anything.
type Wizard struct {
	Steps   int
	Current int
}

func New(steps int) *Wizard {
	if steps < 1 {
		steps = 1
	}
	return &Wizard{Steps: steps, Current: 1}
}

func (w *Wizard) Next() {
	if w.Current < w.Steps {
		w.Current++
	}
}

func (w *Wizard) Prev() {
	if w.Current > 1 {
		w.Current--
	}
}

// Goto moves to `step`, clamped to the wizard bounds.
func (w *Wizard) Goto(step int) {
	switch {
	case step < 1:
		w.Current = 1
	case step > w.Steps:
		w.Current = w.Steps
	default:
		w.Current = step
	}
}

func (w *Wizard) Reset() {
	w.Current = 1
}

func (w *Wizard) First() bool { return w.Current == 1 }
func (w *Wizard) Last() bool  { return w.Current == w.Steps }

// Rule is a presence check on a field shown at Step.
type Rule struct {
	Step    int
	Field   string
	Message string
	Check   func() bool
}

// Failure is the first rule a draft does not satisfy.
type Failure struct {
	Step    int
	Field   string
	Message string
}

func (f Failure) Error() string {
	return f.Message
}

// Plan is the ordered set of rules checked before submitting.
type Plan []Rule

// First returns the first failing rule, in declaration order, or nil.
func (p Plan) First() *Failure {
	for _, r := range p {
		if !r.Check() {
			return &Failure{Step: r.Step, Field: r.Field, Message: r.Message}
		}
	}
	return nil
}

// Validate checks the plan and moves `w` to the step of the first failure.
func (p Plan) Validate(w *Wizard) *Failure {
	f := p.First()
	if f != nil && w != nil {
		w.Goto(f.Step)
	}
	return f
}
