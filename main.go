// repos-languages collects the name and primary language of the public repositories
// of GitHub accounts into CSV files, and publishes those files to a new repository.
//
// Usage:
//
//	repos-languages collect [org...]
//	repos-languages publish
//	repos-languages run
//	repos-languages serve
package main

import (
	"github.com/Scalingo/repos-languages/cmd"
)

func main() {
	cmd.Execute()
}
