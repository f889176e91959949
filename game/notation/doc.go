// Package notation parses shot scripts.
//
// A script is a list of shots separated by semicolons or newlines. Each shot
// names a club from the hand, any modifiers joined with '+', and an aim:
//
//	Iron + Tailwind > ne
//	Putter @ (1,-2)
//	"Sand Wedge" + chip > 3
//
// Directions accept the forms engine.ParseDirection does. Modifiers match a
// card name first and fall back to the modifier kind, so "wind" picks any
// wind card in hand.
package notation
