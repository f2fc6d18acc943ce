package main

import "github.com/frahmantamala/org-portal/cmd"

func main() {
	cmd.Execute()
}
