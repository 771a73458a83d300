// cmd/main.go
package main

import (
	"go-blog-api/app"
)

// @title           Go-Blog API
// @version         1.0
// @description     A blog backend with cookie or bearer token sessions, refresh token rotation and role based access.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
