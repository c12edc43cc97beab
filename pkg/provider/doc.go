// Package provider implements the chat-completions client used to obtain
// routing and tool-selection decisions from the model.
package provider
