package main

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"

	"netra/internal/cli"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cli.Execute()
}
