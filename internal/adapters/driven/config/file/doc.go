// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the recall home directory (~/.recall).
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: User-editable LLM prompt templates
package file
