package main

import (
	"log"

	"github.com/MrSnakeDoc/lombahub/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ lombahub failed to start: %v", err)
	}
}
