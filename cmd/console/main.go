package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/flock/internal/app"
	"github.com/dmitrijs2005/flock/internal/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	a, err := app.NewApp(ctx, cfg, app.Options{})

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	a.Run(ctx)

}
