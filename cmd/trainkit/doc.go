// Package main implements the trainkit command. It trains a small
// perceptron on the synthetic square root dataset, benchmarks its forward
// latency, samples indices by weight, reports saved model sizes and creates
// experiment directories.
//
// Run "trainkit --help" for the list of subcommands. A YAML file passed with
// --config overrides the built in defaults and subcommand flags override the
// file. --cpuprofile default.pgo collects a profile usable for PGO builds.
package main
