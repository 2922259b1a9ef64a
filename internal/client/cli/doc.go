// Package cli provides the interactive TaskKeeper command-line client.
//
// App wires the configuration, the local session store and the REST client,
// then runs a read-eval-print loop. Public commands (register, login, help,
// exit) work without a session; everything else requires one and is refused
// with a hint to log in first.
//
// The list of tasks last printed by "list" is kept so later commands can
// refer to a task by its position (for example "done 2") instead of its id.
// A failed mutation never touches that list.
package cli
