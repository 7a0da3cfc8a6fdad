// Command abctl selects and maintains A/B boot slots recorded in GPT
// partition attributes.
package main

func main() {
	execute()
}
