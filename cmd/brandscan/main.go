// Package main provides the entry point for the brandscan CLI.
package main

func main() {
	Execute()
}
