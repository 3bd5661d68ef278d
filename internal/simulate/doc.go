// Package simulate generates seeded synthetic creators so compensation
// models can be compared before real exports exist.
//
// Each synthetic creator receives a view total that is split across their
// videos with a heavy tail: the top fifth of videos take most of the views
// and the rest share what remains. Project applies a "viral month" on top
// of a generated set, boosting enough videos past 100K views to reach a
// target share. The same seed always yields the same creators.
package simulate
