// Package anki exports saved flashcards as Anki import files, either a
// plain CSV or a complete .apkg package with ruby-annotated card
// templates.
package anki
