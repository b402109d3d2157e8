package main

import "github.com/amala-code/new-admin-backend/cmd"

func main() {
	cmd.Execute()
}
