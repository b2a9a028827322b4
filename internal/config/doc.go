// Package config provides configuration loading, merging, and validation
// facilities for taxoclient.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags (collected by the CLI layer and passed in)
//  3. JSON config file
//
// The main entry point is [GetConfig].
package config
