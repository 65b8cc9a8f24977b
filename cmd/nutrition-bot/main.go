// cmd/nutrition-bot/main.go
package main

import (
	"nutrition-bot/internal/cli"
)

func main() {
	cli.Execute()
}
