package main

import (
	"log"

	"github.com/MrSnakeDoc/sip/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ sip failed to start: %v", err)
	}
}
