package main

import "errors"

// Errors surfaced by the dispatcher and the stores.
var (
	// ErrEmptyInput is returned when a run is requested for blank source.
	ErrEmptyInput = errors.New("empty source")

	// ErrTransport is returned when the exchange with the execution service fails.
	ErrTransport = errors.New("execution service unavailable")

	// ErrRunInFlight is returned when a run is requested while another is outstanding.
	ErrRunInFlight = errors.New("run already in progress")

	// ErrPreview is returned when a rendered document cannot be opened.
	ErrPreview = errors.New("preview failed")

	// ErrUnknownLanguage is returned for languages missing from the registry.
	ErrUnknownLanguage = errors.New("unknown language")
)
