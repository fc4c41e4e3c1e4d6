// Package secrets resolves the Neo4j connection credentials and the admin
// API key at startup.
//
// Two sources exist. The env source reads values already loaded into the
// configuration (flags, config file, environment or a local .env file).
// The ssm source reads SecureString parameters from AWS SSM Parameter
// Store. Resolve picks env whenever a database URI is configured locally
// and ssm otherwise, and reports the choice as a Source.
//
// SSM reads are retried with bounded exponential backoff. Failures that
// retrying cannot fix, such as a missing parameter or malformed JSON, are
// returned as FatalError and end the retry loop immediately.
package secrets
