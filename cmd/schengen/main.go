// Package main is the schengen command-line tool: the stay tracker over a
// local SQLite file, for travellers who do not run the API server.
package main

import (
	"os"
	"time"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr, time.Now).execute(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
