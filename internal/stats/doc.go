// Package stats defines the statistics rows scraped from a league page and the
// operations the presentation layers run over them.
//
// A Page holds one Table per statistical category in page order. Pages are
// transient: they are rebuilt on every fetch and never persisted. Search and
// Select derive filtered views without mutating the page, and Series turns a
// selection into chart points once every total parses as a number.
package stats
