// Package main is budgetctl, an offline what-if tool: it runs the budget
// optimizer on TOML scenario files without touching any database.
package main

func main() {
	Execute()
}
