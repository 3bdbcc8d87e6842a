// Command mtt tracks time with any number of named stopwatch timers.
package main

import "github.com/mtt-project/mtt/internal/cli"

func main() {
	cli.Execute()
}
