// Package dag builds the execution graph for a scenario. It turns dataset,
// output and resource blocks into nodes, links explicit depends_on addresses
// and implicit expression references, and validates the result is acyclic
// before the executor runs it.
package dag
