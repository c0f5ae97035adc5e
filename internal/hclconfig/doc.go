// Package hclconfig loads run files written in HCL into a config.Model.
//
// A run file may contain any number of run and publish blocks and at most one
// ledger block across all loaded files:
//
//	ledger { path = "runs.db" }
//
//	run "day03" {
//	  input        = "${env.DATA_DIR}/03.txt"
//	  computations = ["part_sum", "gear_ratio_sum"]
//	}
//
//	publish "dashboard" {
//	  url     = "http://localhost:3000/socket.io/"
//	  event   = "schematic.result"
//	  timeout = "5s"
//	}
//
// Expressions can read the process environment through the env object.
// Relative input and ledger paths are resolved against the directory of the
// file that declares them.
package hclconfig
