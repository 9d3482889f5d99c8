package main

import "github.com/meysamhadeli/codetab/cmd"

func main() {
	cmd.Execute()
}
