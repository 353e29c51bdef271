// Package graph provides the small cycle-reporting helpers shared by
// validation passes that walk a reference graph looking for cycles: the
// Function Validator's get_property cycle detection (spec §4.12) is the
// only current consumer.
package graph

import "strings"

// Cycle describes one detected reference cycle: the ordered chain of
// identities that was walked before a repeat was found.
type Cycle struct {
	Chain []string
}

// NewCycle builds a Cycle from the visited-identity chain.
func NewCycle(chain []string) *Cycle {
	return &Cycle{Chain: append([]string(nil), chain...)}
}

// String renders the chain with the "a -> b -> c" separator spec §4.12 and
// §8 scenario S6 require.
func (c *Cycle) String() string {
	return strings.Join(c.Chain, " -> ")
}
