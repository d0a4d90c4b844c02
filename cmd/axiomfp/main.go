// axiomfp plots per-sample log ratio histograms for the SNPs of an Axiom
// genotyping run that pass call rate and cluster separation filters.
package main

import (
	"os"
)

func main() {
	os.Exit(Execute(os.Args[1:]))
}
