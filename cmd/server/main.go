package main

import (
	"log"

	_ "money-transfer-backend/docs"
	"money-transfer-backend/internal/app"
)

// @title           Money Transfer API
// @version         1.0
// @description     API для денежных переводов JPY -> NPR: отправители, получатели, переводы с асинхронной обработкой через Kafka

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app, err := app.NewApp()
	if err != nil {
		log.Fatalf("Ошибка создания приложения: %v", err)
	}

	app.BuildAuthLayer()
	if err := app.BuildPartyLayer(); err != nil {
		log.Fatalf("Ошибка сборки слоя party: %v", err)
	}
	if err := app.BuildTransactionLayer(); err != nil {
		log.Fatalf("Ошибка сборки слоя transactions: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("Ошибка при работе приложения: %v", err)
	}
}
