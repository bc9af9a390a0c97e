package main

import (
	"github.com/neonlabs/contact-backend/internal/app"
	"go.uber.org/fx"
)

// main is the entry point for the API server application.
func main() {
	fx.New(app.Module).Run()
}
