package main

import "github.com/fastygo/storefront/cmd/sitectl/commands"

func main() {
	commands.Execute()
}
