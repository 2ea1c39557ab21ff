// File: main.go
package main

import "github.com/Ma63d/youmind-skill/cmd"

func main() {
	cmd.Execute()
}
