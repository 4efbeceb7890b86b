/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/akrol/geodebug/cmd"

func main() {
	cmd.Execute()
}
