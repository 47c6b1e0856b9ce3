// Package cards stores saved flashcards on disk, one directory per card
// holding the captured text, its language label, translation and
// annotated reading.
package cards
