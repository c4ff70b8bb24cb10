// Package generation provides interfaces and implementations for interacting
// with external AI/LLM services for flashcard content generation. It abstracts
// the details of LLM API integration (Gemini, OpenAI, and OpenAI-compatible
// self-hosted endpoints), allowing the application to synthesize note fields
// from a word or phrase without coupling to specific external services.
package generation
