// Package browser is the interactive template browser behind
// `guidebook browse`: a filterable list of every template, and a scrollable
// glamour rendering of the selected one.
package browser
