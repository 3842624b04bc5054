package statecu

import "statecu/entities"

type checker struct {
	component Component
	id        string
	problems  []entities.Problem
}

func (c *checker) add(msg, recommendation string) {
	c.problems = append(c.problems, entities.Problem{
		Component:      string(c.component),
		ID:             c.id,
		Message:        msg,
		Recommendation: recommendation,
	})
}

func between(v, lo, hi float64) bool { return v >= lo && v <= hi }

func betweenInt(v, lo, hi int) bool { return v >= lo && v <= hi }
