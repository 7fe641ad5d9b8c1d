package main

import "github.com/mvp-joe/php-reflect/internal/cli"

func main() {
	cli.Execute()
}
