package main

import "github.com/josephlewis42/shellcraft/cmd"

func main() {
	cmd.Execute()
}
