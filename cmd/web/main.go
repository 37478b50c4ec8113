package main

import "aveta_backend/internal/app"

func main() {
	app.Run()
}
