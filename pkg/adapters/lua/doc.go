/*
Package lua registers custom conditions, events and text arguments written in Lua.

A script fills three global tables. Every function it stores becomes a hook
under the same name:

	function conditions.rich(session, participant)
		return participant.int("Gold") >= 100
	end

	function events.pay(session, participant)
		participant.add_int("Gold", -10)
	end

	function texts.title(session, participant, display)
		return participant.display_name() .. " the Bold"
	end

The participant table exposes name, display_name, int, float, bool, value
readers and set_int, add_int, set_float, add_float, set_bool, set_name, emit
writers. It is nil when the hook runs without a participant. The session table
carries dialogue, node and a visited(index[, local]) function.
*/
package lua
