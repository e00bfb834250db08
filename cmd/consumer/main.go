package main

import (
	"log"

	"money-transfer-backend/internal/worker"
)

func main() {
	app, err := worker.NewApp()
	if err != nil {
		log.Fatalf("не удалось создать приложение: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("ошибка при запуске приложения: %v", err)
	}
}
