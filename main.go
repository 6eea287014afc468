package main

import (
	"log"

	"github.com/bionovax/bionova/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
