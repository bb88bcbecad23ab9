// Package services implements the driving port interfaces.
// Services contain the document/face workflow state machine and
// orchestrate calls to driven ports (adapters).
//
// Every controller exposes its transitions as plain methods that return
// the resulting state, so the workflow is testable without a terminal.
package services
