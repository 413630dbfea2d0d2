package main

import (
	"log"

	"github.com/linkhaven/linkhaven/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ linkhaven failed to start: %v", err)
	}
}
