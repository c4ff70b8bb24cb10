// Package service contains the application services that compose the
// AnkiConnect connector with the LLM generator: note preview and insertion,
// batch generation, and note search/update/delete.
package service
