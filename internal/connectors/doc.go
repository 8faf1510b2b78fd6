// Package connectors holds the corpus sources. The filesystem connector is the
// only one: it loads a file or directory tree into documents and can watch a
// directory for new or changed files.
package connectors
