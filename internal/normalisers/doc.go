// Package normalisers provides implementations of the Normaliser interface
// for the document formats the corpus loader understands. Each normaliser
// knows how to extract text content from a specific MIME type.
//
// Normalisers are registered with a Registry at startup; the loader asks
// it for the highest priority normaliser for each file's MIME type.
package normalisers
