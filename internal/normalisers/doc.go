// Package normalisers provides implementations of the Normaliser interface
// for various file formats. Each normaliser knows how to extract plain
// text content from a specific set of file extensions.
//
// Normalisers are registered with the NormaliserRegistry at startup.
package normalisers
