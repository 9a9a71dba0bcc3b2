// Package main provides the entry point for the commonsmeta CLI.
//
// commonsmeta walks a Wikimedia Commons category, prints the categories and
// metadata of its files, and describes the Wikidata items they depict.
//
// Usage:
//
//	commonsmeta run "Category:Wiki Loves Monuments 2021 in Brazil"
//	commonsmeta summary "File:Igreja da Candelária.jpg"
//
// See --help for all available options.
package main

func main() {
	Execute()
}
