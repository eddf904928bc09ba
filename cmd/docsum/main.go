// Package main is the entry point for the docsum service.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	docsum "github.com/kart-io/docsum/internal/docsum"
)

func main() {
	docsum.NewApp().Run()
}
