package main

import "remates-scraper/internal/cli"

func main() {
	cli.Execute()
}
