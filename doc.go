// Package liveterm renders blocks of terminal output that repaint in place
// as the state they read changes.
//
// A Session owns the terminal. A Section pairs a render function with a run
// block: the render function describes the section's text and styles, and
// the run block drives state changes through LiveVar and the live
// collections, timers, key and input callbacks, and asides. Every change to
// state a section read schedules a repaint, bursts of changes are coalesced
// into one pass, and each pass erases the previous frame and writes the new
// one.
//
// Users import this single package for the complete public API.
package liveterm
