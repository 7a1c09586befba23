package sqlbuild

import (
	"fmt"
	"strings"
)

// Term is one element of a Chain: a predicate and the conjunction that
// joins it to the previous term. The first term has ConjNone.
type Term struct {
	Conj      Conjunction
	Predicate Predicate
}

// Chain is an ordered WHERE clause built by successive Where/OrWhere calls.
//
// Chain is immutable: every method returns a new Chain and leaves the
// receiver untouched, so a caller can keep the previous state if executing
// the extended chain fails. The zero value is the empty chain.
type Chain struct {
	terms []Term
}

// Len returns the number of predicates in the chain.
func (c Chain) Len() int {
	return len(c.terms)
}

// Empty reports whether no predicate has been added yet.
func (c Chain) Empty() bool {
	return len(c.terms) == 0
}

// Terms returns a copy of the chain's terms.
func (c Chain) Terms() []Term {
	out := make([]Term, len(c.terms))
	copy(out, c.terms)
	return out
}

// Where appends p with AND, or starts the chain when it is empty.
func (c Chain) Where(p Predicate) (Chain, error) {
	if err := p.validate(); err != nil {
		return c, err
	}
	conj := ConjAnd
	if c.Empty() {
		conj = ConjNone
	}
	return c.append(Term{Conj: conj, Predicate: p}), nil
}

// OrWhere appends p with OR. It fails with ErrOrWithoutWhere on an empty
// chain.
func (c Chain) OrWhere(p Predicate) (Chain, error) {
	if c.Empty() {
		return c, ErrOrWithoutWhere
	}
	if err := p.validate(); err != nil {
		return c, err
	}
	return c.append(Term{Conj: ConjOr, Predicate: p}), nil
}

func (c Chain) append(t Term) Chain {
	terms := make([]Term, len(c.terms), len(c.terms)+1)
	copy(terms, c.terms)
	return Chain{terms: append(terms, t)}
}

// compile renders the chain as a WHERE fragment (without the keyword).
// Each predicate gets its own placeholder from names, in order.
func (c Chain) compile(names *placeholders) (string, []Param) {
	var sb strings.Builder
	params := make([]Param, 0, len(c.terms))

	for i, t := range c.terms {
		if i > 0 {
			conj := t.Conj
			if conj == ConjNone {
				conj = ConjAnd
			}
			sb.WriteString(" " + string(conj) + " ")
		}
		name := names.indexed(len(params))
		fmt.Fprintf(&sb, "%s %s :%s", quoteIdentifier(t.Predicate.Column), t.Predicate.Operator, name)
		params = append(params, Param{Name: name, Value: t.Predicate.Value})
	}

	return sb.String(), params
}
