// Command skilllog keeps a local log of skills and notes.
package main

import "github.com/mesh-intelligence/skilllog/internal/cli"

func main() {
	cli.Execute()
}
