package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"codexplain/internal/server"
	"codexplain/internal/server/config"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
