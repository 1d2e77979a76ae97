package main

import (
	"github.com/JeroenAmsterdam/renault-content-ai/cmd/handlers"
)

func main() {
	handlers.Execute()
}
