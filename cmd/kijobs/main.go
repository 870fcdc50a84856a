package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for the ntfy topic and friends; absence is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
