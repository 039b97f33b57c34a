package main

import (
	_ "time/tzdata"

	"github.com/frahmantamala/intern-attendance/cmd"
)

func main() {
	cmd.Execute()
}
