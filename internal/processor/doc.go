// Package processor contains the core logic for handling captured
// texts. It coordinates script classification, translation, reading
// annotation, usage quota checks, card storage and Anki export. This
// package serves as the main coordinator between all other components.
package processor
