// Package trainer composes the training helpers into an epoch loop: SGD
// epochs with scheduled path dropout, evaluation with running meters and
// checkpointing of the best model.
package trainer
