package main

import "github.com/inovacc/mornpage/cmd"

func main() {
	cmd.Execute()
}
