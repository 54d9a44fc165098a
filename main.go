package main

import "github.com/thereayou/burnchat/cmd/server"

func main() {
	server.NewServer().Run()
}
