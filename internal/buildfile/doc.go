// Package buildfile loads the HCL build file that lists the documents of a
// project, the shape libraries they use and where compiled results go.
//
//	libraries      = ["lib"]
//	output_dir     = "${env.OUT_DIR}"
//	error_placards = true
//
//	document "logo" {
//	  source = "logo.shape"
//	  output = "logo.svg"
//	}
//
//	publish {
//	  url        = "http://localhost:3000/socket.io/"
//	  emit_event = "compiled"
//	}
//
// Expressions can read the process environment through env and call a few
// string functions (upper, lower, format, join, trimspace). Relative paths
// are resolved against the directory holding the build file.
package buildfile
