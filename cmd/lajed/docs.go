package main

// General API documentation for swaggo. Run `swag init -g cmd/lajed/docs.go` to regenerate docs/.
//
// @title           lajed API
// @version         1.0
// @description     Extracts slab dimensions (largura, comprimento, alturaViga) from construction plan images.
//
// @contact.name   lajed maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http https
