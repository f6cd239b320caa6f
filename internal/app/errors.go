package app

import "errors"

var (
	// ErrQueueFull signals backpressure at intake.
	ErrQueueFull = errors.New("submission queue is full")

	// ErrUnknownCompetitor marks a submission for a competitor not on
	// the roster.
	ErrUnknownCompetitor = errors.New("unknown competitor")

	// ErrUnknownRound marks a reference to a round that does not exist.
	ErrUnknownRound = errors.New("unknown round")

	// ErrUnknownClass marks a reference to a class that does not exist.
	ErrUnknownClass = errors.New("unknown competition class")
)
