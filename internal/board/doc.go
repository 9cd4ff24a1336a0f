// Package board holds the client-side view of the task list: the tasks as
// last seen, the draft title, a loading flag and an error message. Toggles
// are applied optimistically and reconciled with the server afterwards.
//
// Each task carries a sync state. A toggle moves it to Pending; a successful
// response moves it to Confirmed; a failed one moves it to Reverting until the
// list has been reloaded. Responses to a toggle that has since been
// superseded by a newer toggle of the same task are dropped, so the last
// toggle issued always wins locally.
package board
