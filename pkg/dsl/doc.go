/*
Package dsl provides a Go DSL for building dialogues without a document.

Builders produce the same records a YAML or Markdown document decodes into and
run them through the same compiler, so nodes refer to each other by key and
every validation rule applies. Go hooks passed to Custom, Do and CustomArg are
registered under generated names.

Example usage:

	b := dsl.New("tavern").
		Participant(domain.ParticipantData{Name: "Bob"}).
		Entry("greet")

	b.Add("greet").
		Owner("Bob").
		Text("Welcome, {player}!", dsl.DisplayName("player", "Alice")).
		Go("drink", dsl.Option("A pint, please."), dsl.If(dsl.Int("Alice", "Gold", ">=", 5))).
		Go("bye", dsl.Option("Goodbye."))

	b.Add("drink").Owner("Bob").Text("Here you go.").Go("bye")
	b.Add("bye").Terminal()

	dialogue, err := b.Build()
*/
package dsl
