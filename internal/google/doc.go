// Package google manages Google OAuth2 tokens for the Gmail fetch command.
//
// Tokens are stored per account as JSON files under the user cache directory
// ($XDG_CACHE_HOME/courtmail/google-<account>.token on Linux). The OAuth client is taken
// from GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET and only requests read-only Gmail access.
package google
