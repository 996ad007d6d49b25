// Package ui renders the orchestrator's [orchestrator.Frame] in the terminal using bubbletea's Elm architecture.
//
// The [Model] re-runs [orchestrator.Orchestrator.Cycle] on a fixed tick, after every key press and
// whenever a background task wakes the program (see [Wake]). It keeps no build state of its own:
// each View draws the latest Frame.
//
// Keyboard: j/k move between rune pages, enter applies the highlighted page, s opens the
// fuzzy source picker, a writes item sets for the selected source, R reloads the client
// catalog, t toggles visibility and q quits.
package ui
