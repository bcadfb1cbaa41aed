// Package tui collects solver input from a terminal and prints results. The
// prompt flow talks to a PromptDriver so it can be scripted in tests; the
// default driver uses survey.
package tui
