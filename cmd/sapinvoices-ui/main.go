// Package main implements the sapinvoices-ui CLI.
// It launches and monitors SAP invoice runs and serves the web app locally.
package main

import "github.com/MITLibraries/alma-sapinvoices-ui/cmd/sapinvoices-ui/cmd"

func main() {
	cmd.Execute()
}
