package main

import (
	_ "lunapay/docs"
	"lunapay/internal/adapter/http/routes"

	_ "github.com/joho/godotenv/autoload"
)

// @title           LunaPay API
// @version         1.0
// @description     Multi-tenant payment gateway abstraction (ASAAS, C6, Mercado Pago) backed by DynamoDB.

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

func main() {
	routes.Run()
}
