package main

import (
	"github.com/teamline/teamline/cmd/server"
)

func main() {
	s := server.NewServer()
	defer s.Log.Sync()

	s.Run()
}
