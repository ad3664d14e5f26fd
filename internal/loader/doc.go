// Package loader reads pipeline definitions from CUE files.
//
// Definitions live under a top-level "pipelines" struct, one entry per
// pipeline. Compilation uses the CUE SDK's Go API directly and reports
// positioned errors with stable E-codes, so a definition error points
// at the offending file and line.
package loader
