package main

import (
	"context"
	"log"

	"Turno/Controllers"
	"Turno/FiberConfig"
	"Turno/Models"
	"Turno/Storage"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	Controllers.InitPasscode()
	Models.Connect()

	photos, err := Storage.NewFromEnv(context.Background())
	if err != nil {
		log.Fatal("Failed to initialize photo storage:", err)
	}

	FiberConfig.FiberConfig(photos)
}
