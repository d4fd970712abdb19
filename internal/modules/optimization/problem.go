package optimization

import "math"

// Variable names used in a ProblemSpec.
const (
	SavingsVariable   = "savings"
	spendingVarPrefix = "spend:"
)

// SpendingVariable returns the decision variable name for a category.
func SpendingVariable(category string) string {
	return spendingVarPrefix + category
}

// Sense is the relation of a constraint row.
type Sense int

const (
	SenseEQ Sense = iota // ==
	SenseLE              // <=
	SenseGE              // >=
)

func (s Sense) String() string {
	switch s {
	case SenseEQ:
		return "=="
	case SenseLE:
		return "<="
	case SenseGE:
		return ">="
	}
	return "?"
}

// Variable is a continuous decision variable. Upper may be +Inf.
type Variable struct {
	Name  string
	Lower float64
	Upper float64
}

// Bounded reports whether the variable has a finite upper bound.
func (v Variable) Bounded() bool {
	return !math.IsInf(v.Upper, 1)
}

// Term is a coefficient applied to a variable.
type Term struct {
	Variable string
	Coef     float64
}

// Constraint is one linear row: Σ terms <sense> RHS.
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// ProblemSpec is a linear program to be maximized.
type ProblemSpec struct {
	Name        string
	Variables   []Variable
	Objective   []Term
	Constraints []Constraint
}

// VariableIndex returns the position of each variable by name.
func (p ProblemSpec) VariableIndex() map[string]int {
	idx := make(map[string]int, len(p.Variables))
	for i, v := range p.Variables {
		idx[v.Name] = i
	}
	return idx
}

// FindConstraint returns the named constraint, if present.
func (p ProblemSpec) FindConstraint(name string) (Constraint, bool) {
	for _, c := range p.Constraints {
		if c.Name == name {
			return c, true
		}
	}
	return Constraint{}, false
}
