// Command localrag is the local semantic retrieval engine CLI.
package main

import (
	"github.com/custodia-labs/localrag/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
