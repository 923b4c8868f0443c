// Command server runs the studioplan schedule API.
package main

import (
	"context"
	"log"

	"github.com/nordvik/studioplan-backend/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("server: %v", err)
	}
}
