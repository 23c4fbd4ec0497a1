package main

import "Beamcalc/cmd"

func main() {
	cmd.Execute()
}
