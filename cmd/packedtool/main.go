package main

import (
	"github.com/balzaczyy/gopacked/cmd/packedtool/commands"
)

func main() {
	commands.Execute()
}
