// Package app contains the core application logic. It defines the App
// struct, its configuration, and the three ways it runs: compiling a single
// source, building every document listed in a build file, and serving the
// compiler over HTTP. It is decoupled from any specific entrypoint like a
// CLI.
package app
