/*
main.go - Offline report generator

PURPOSE:
  Produces the same documents as POST /api/reports straight from the
  spreadsheet exports, without a server or database.

COMMANDS:
  reportgen attendance --employees roster.xlsx [--off-days leave.xlsx]
                       --from 2023-08-01 --to 2023-08-31 --out cards.pdf
  reportgen salary     --employees roster.xlsx [--off-days leave.xlsx]
                       --month 2023-08 [--eobi 250] [--format xlsx] --out sheet.pdf

  Company name and shift default to AL HASAN 09:00-18:00 and can be set with
  --name, --time-in and --time-out. The default gazetted holidays are applied
  unless --no-default-holidays is given.
*/
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
