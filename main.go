package main

import "github.com/anshumat/payroll-management/cmd"

func main() {
	cmd.Execute()
}
