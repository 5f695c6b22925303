// Package squareroot implements a synthetic classification dataset: the input
// is an integer encoded as bits and the class is its integer square root.
package squareroot
