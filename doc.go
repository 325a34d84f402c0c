/*
Package parley is a dialogue-tree engine for games and interactive fiction.

A dialogue is an immutable graph of nodes joined by guarded edges. A session
(a Context) walks one dialogue with a set of bound participants: it evaluates
edge conditions against the participants, fires events on them, substitutes
text arguments and remembers which nodes were visited, both for the session
and, across sessions, in a global visitation memory owned by the Engine.

# Concept

The Engine is the launcher. It loads dialogues (from a Loam repository of
Markdown, YAML or JSON documents by default, or from any ports.DialogueLoader),
binds participants by name, validates the binding against the names the
dialogue declares and starts the session. The host drives the session by
reading the active line and choosing among the satisfied options.

# Key Features

  - Strong and weak conditions over int, float, bool and name variables, participant flags, visited nodes and custom Go or Lua predicates.
  - Speech, sequence, selector and end nodes.
  - Global visitation memory with export, import and persistence through file or Redis stores.
  - Structured logging with a session description on every failure.

# Usage

	eng, err := parley.New("./dialogues")
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	d, err := eng.Load(ctx, "tavern")
	if err != nil {
		log.Fatal(err)
	}

	session, err := eng.StartDialogue(ctx, d, alice, bob)
	if err != nil {
		log.Fatal(err)
	}

	for !session.IsEnded() {
		fmt.Println(session.ActiveParticipantDisplayName(), session.ActiveNodeText(ctx))
		for i := 0; i < session.OptionCount(); i++ {
			fmt.Printf("%d) %s\n", i+1, session.OptionText(ctx, i))
		}
		if !session.ChooseOption(ctx, readChoice()) {
			break
		}
	}
*/
package parley
