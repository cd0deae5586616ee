// Package llm provides the text-completion capability used for thread analysis.
//
// A Client takes a system instruction and a user prompt and returns the model's text. The
// package ships OpenAI and Anthropic providers behind the same interface; callers choose one
// with Config.Provider. Clients make exactly one request per call and never retry. Rate
// limiting is left to the caller, which bounds concurrency instead.
package llm
