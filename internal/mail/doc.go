// Package mail defines the email record consumed by the thread pipeline.
//
// A Record is an immutable snapshot of one fetched message: headers as raw strings, the optional
// plain/HTML bodies, and attachments in MIME part discovery order. Records are produced by the
// Gmail fetch collaborator (package gmail) or loaded from a JSON/YAML records file with
// LoadRecords. Nothing in the pipeline mutates a Record after it is loaded.
package mail
