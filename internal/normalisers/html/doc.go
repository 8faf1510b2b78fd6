// Package html provides a Normaliser implementation for HTML documents.
// Readable text is extracted with the golang.org/x/net/html tokenizer;
// script and style content is skipped and entities are decoded.
package html
