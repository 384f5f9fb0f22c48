// Package normalisers turns files into plain text ready for chunking.
// Each format lives in its own subpackage; Registry picks one by file
// extension and falls back to plain text.
package normalisers
