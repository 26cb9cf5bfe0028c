package main

import (
	"flag"
)

func main() {
	manual := flag.Bool("manual", false, "wire the dependencies by hand instead of with the dig container")
	flag.Parse()

	if *manual {
		startManual()
		return
	}
	startWithDig()
}
