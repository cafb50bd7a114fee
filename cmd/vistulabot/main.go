// Command vistulabot is a terminal client for the VistulaBot assistant.
package main

import "github.com/vistula/vistulabot/internal/commands"

func main() {
	commands.Execute()
}
