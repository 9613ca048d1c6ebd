// Package main is the entry point for the sitelens command-line tool.
// sitelens analyzes websites across three concurrent branches: SEO and
// content signals, performance metrics, and visual/accessibility review.
package main

func main() {
	Execute()
}
