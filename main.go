package main

import "github.com/hrplatform/employee-directory/cmd"

func main() {
	cmd.Execute()
}
