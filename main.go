package main

import "github.com/satriadw/hrm-portal/cmd"

func main() {
	cmd.Execute()
}
