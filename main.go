package main

import "empsd_automation/presentation/cli"

func main() {
	cli.Execute()
}
