package main

import (
	"boscoin.io/tokenpoll/cmd/tokenpoll/cmd"
)

func main() {
	cmd.Execute()
}
