/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing decision trees.

It allows developers to define troubleshooting flows using a type-safe, fluent builder pattern
instead of hand-writing the JSON State document. This is particularly useful for seeding
stores, unit testing, and leveraging IDE autocompletion/type-checking.

Example usage:

	b := dsl.New()

	b.Category("print", "Printer").
		Describe("Printing problems").
		Start("p_1")

	b.Add("p_1").
		Question("Is the printer on?").
		Yes("p_2").
		No("p_ng")

	b.Add("p_2").
		Action("Clear the queue").
		Steps("Open the queue", "Cancel all jobs").
		Resolved("p_ok").
		NotResolved("p_ng")

	b.Add("p_ok").End("Resolved")
	b.Add("p_ng").End("Contact the IT desk").Ticket("Printer", domain.UrgencyMedium, "")

	// Build validates the tree and fails on error-class issues.
	state, err := b.Build()
*/
package dsl
