package main

import "github.com/ValentinKolb/uKV/cmd"

func main() {
	cmd.Execute()
}
