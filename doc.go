// Package axiomfp holds the input helpers shared by the Axiom frequency-plot
// packages: compression sniffing, delimiter detection and path expansion.
// The pipeline itself lives in package pipeline.
package axiomfp
