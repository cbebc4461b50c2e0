// Package templates discovers and reads convention-named guidance documents.
//
// A template is a markdown file in a flat directory named
//
//	{language}_{kind}.md
//
// where kind is "style_guide" or "best_practices" and language is one or
// more ASCII word characters. Anything else in the directory is ignored.
//
// The Index re-reads the directory on every call; there is no cache and no
// change notification. Lookups are confined to the directory with os.Root,
// and names that would leave it are rejected before any read.
//
// Failures are typed (*NotFoundError, *ReadError, *InvalidNameError,
// *DirectoryError). Sentinel turns them into the "Error..." strings that tool
// callers see.
package templates
